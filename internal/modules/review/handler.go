package review

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/games/:slug/ratings", h.listGameRatings)
	rg.POST("/games/:slug/ratings", authMW, h.createGameRating)

	rg.GET("/products/:id/reviews", h.listProductReviews)
	rg.POST("/products/:id/reviews", authMW, h.createProductReview)
}

func (h *Handler) listGameRatings(c *gin.Context) {
	game, err := h.svc.ResolveGame(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if game == nil {
		response.NotFoundMsg(c, "game not found")
		return
	}
	h.listForSubject(c, models.RefTypeGame, game.ID)
}

func (h *Handler) createGameRating(c *gin.Context) {
	game, err := h.svc.ResolveGame(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if game == nil {
		response.NotFoundMsg(c, "game not found")
		return
	}
	h.createForSubject(c, models.RefTypeGame, game.ID)
}

func (h *Handler) listProductReviews(c *gin.Context) {
	h.listForSubject(c, models.RefTypeProduct, c.Param("id"))
}

func (h *Handler) createProductReview(c *gin.Context) {
	h.createForSubject(c, models.RefTypeProduct, c.Param("id"))
}

func (h *Handler) listForSubject(c *gin.Context, refType models.RefType, refID string) {
	reviews, summary, err := h.svc.ListForSubject(refType, refID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"data":    reviews,
		"summary": summary,
	})
}

func (h *Handler) createForSubject(c *gin.Context, refType models.RefType, refID string) {
	var dto CreateReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.Rating < 1 || dto.Rating > 5 {
		response.BadRequest(c, "rating must be between 1 and 5")
		return
	}

	r, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), refType, refID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, errSubjectNotFound):
			response.NotFoundMsg(c, "review subject not found")
		case errors.Is(err, errAlreadyReviewed):
			response.Conflict(c, "you have already reviewed this")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, r)
}
