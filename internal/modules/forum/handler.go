package forum

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/forum")

	g.GET("/threads", h.listThreads)
	g.GET("/threads/:id", h.getThread)
	g.POST("/threads", authMW, h.createThread)
	g.POST("/threads/:id/replies", authMW, h.createReply)
}

func (h *Handler) listThreads(c *gin.Context) {
	threads, pag, err := h.svc.ListThreads(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, threads, pag)
}

func (h *Handler) getThread(c *gin.Context) {
	t, err := h.svc.GetThread(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, t)
}

func (h *Handler) createThread(c *gin.Context) {
	var dto CreateThreadDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.svc.CreateThread(c.Request.Context(), middleware.CurrentUser(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, t)
}

func (h *Handler) createReply(c *gin.Context) {
	var dto CreateReplyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	r, err := h.svc.CreateReply(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, errThreadNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, r)
}
