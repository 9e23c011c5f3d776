package activity

import (
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
	rg.GET("/activities", authMW, middleware.RequireAdmin(), h.list)
}

func (h *Handler) list(c *gin.Context) {
	var actorID *string
	if v := c.Query("actor_id"); v != "" {
		actorID = &v
	}
	entries, pag, err := h.svc.List(pagination.FromContext(c), actorID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, entries, pag)
}
