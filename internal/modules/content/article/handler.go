package article

import (
	"github.com/gin-gonic/gin"
	"github.com/techplay/core/internal/middleware"
	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
)

type Handler struct {
	svc       *Service
	cache     *CacheService
	revisions *RevisionRecorder
}

func NewHandler(svc *Service, cache *CacheService, revisions *RevisionRecorder) *Handler {
	return &Handler{svc: svc, cache: cache, revisions: revisions}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/articles")

	g.GET("", h.list)
	g.GET("/latest", h.latest)
	g.GET("/popular", h.popular)
	g.GET("/:id", h.get)
	g.GET("/slug/:slug", h.getBySlug)
	g.POST("/:id/views", h.incrementViews)

	e := g.Group("", authMW, middleware.RequireEditor())
	e.GET("/:id/revisions", h.listRevisions)
	e.POST("", h.create)
	e.PATCH("/:id", h.update)
	e.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	isEditor := editorRequest(c)
	q := pagination.FromContext(c)

	lq := ListQuery{}
	if v := c.Query("status"); v != "" && isEditor {
		st := models.ArticleStatus(v)
		lq.Status = &st
	}
	if v := c.Query("tag"); v != "" {
		lq.Tag = &v
	}

	articles, pag, err := h.svc.List(q, lq, isEditor)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, articles, pag)
}

func (h *Handler) latest(c *gin.Context) {
	entries, err := h.cache.Latest(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *Handler) popular(c *gin.Context) {
	entries, err := h.cache.Popular(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil || (!a.IsPublished() && !editorRequest(c)) {
		response.NotFound(c)
		return
	}
	response.OK(c, a)
}

func (h *Handler) getBySlug(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Param("slug"), editorRequest(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, a)
}

func (h *Handler) incrementViews(c *gin.Context) {
	if err := h.svc.IncrementViews(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) listRevisions(c *gin.Context) {
	revisions, err := h.revisions.ListForArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, revisions)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !validStatus(dto.Status) {
		response.UnprocessableEntity(c, "invalid status")
		return
	}

	a, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), &dto)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.Status != nil && !validStatus(*dto.Status) {
		response.UnprocessableEntity(c, "invalid status")
		return
	}

	a, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

func editorRequest(c *gin.Context) bool {
	user := middleware.CurrentUser(c)
	return user != nil && user.IsEditor()
}

func validStatus(s models.ArticleStatus) bool {
	switch s {
	case "", models.ArticleDraft, models.ArticleInReview, models.ArticlePublished:
		return true
	}
	return false
}
