package article

import "github.com/techplay/core/internal/models"

type CreateArticleDTO struct {
	Title   string               `json:"title"   binding:"required"`
	Slug    string               `json:"slug"    binding:"required"`
	Text    string               `json:"text"`
	Summary string               `json:"summary"`
	Status  models.ArticleStatus `json:"status"`
	Tags    models.StringSlice   `json:"tags"`
	Views   *int64               `json:"views"` // bulk/seed imports only
}

type UpdateArticleDTO struct {
	Title   *string               `json:"title"`
	Slug    *string               `json:"slug"`
	Text    *string               `json:"text"`
	Summary *string               `json:"summary"`
	Status  *models.ArticleStatus `json:"status"`
	Tags    models.StringSlice    `json:"tags"`
	Views   *int64                `json:"views"`
}

type ListQuery struct {
	Status *models.ArticleStatus
	Tag    *string
}
