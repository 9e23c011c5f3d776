package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/comments")

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", authMW, h.create)
	g.DELETE("/:id", authMW, middleware.RequireAdmin(), h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var refType *models.RefType
	var refID *string
	if v := c.Query("ref_type"); v != "" {
		rt := models.RefType(v)
		refType = &rt
	}
	if v := c.Query("ref_id"); v != "" {
		refID = &v
	}

	comments, pag, err := h.svc.List(q, refType, refID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, comments, pag)
}

func (h *Handler) get(c *gin.Context) {
	comment, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if comment == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, comment)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errRefNotFound), errors.Is(err, errParentNotFound):
			response.NotFoundMsg(c, err.Error())
		case errors.Is(err, errParentMismatch):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, comment)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
