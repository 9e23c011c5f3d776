package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pipeline"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service handles article business logic. Persistence succeeds or fails
// on its own; pipeline side effects (revisions, cache refreshes) are
// dispatched after the write and never fail the primary operation.
type Service struct {
	db         *gorm.DB
	dispatcher *pipeline.Dispatcher
}

func NewService(db *gorm.DB, dispatcher *pipeline.Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

// List returns a paginated list of articles. Readers only see published
// ones; editors see everything.
func (s *Service) List(q pagination.Query, lq ListQuery, isEditor bool) ([]models.ArticleModel, response.Pagination, error) {
	tx := s.db.Model(&models.ArticleModel{}).
		Order("created_at DESC")

	if !isEditor {
		tx = tx.Where("status = ?", models.ArticlePublished)
	}
	if lq.Status != nil {
		tx = tx.Where("status = ?", *lq.Status)
	}
	if lq.Tag != nil {
		tx = tx.Where("JSON_CONTAINS(tags, ?)", fmt.Sprintf("%q", *lq.Tag))
	}

	var articles []models.ArticleModel
	pag, err := pagination.Paginate(tx, q, &articles)
	return articles, pag, err
}

// GetByID fetches a single article by ID.
func (s *Service) GetByID(id string) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// GetBySlug fetches a single article by slug.
func (s *Service) GetBySlug(slug string, isEditor bool) (*models.ArticleModel, error) {
	tx := s.db.Where("slug = ?", slug)
	if !isEditor {
		tx = tx.Where("status = ?", models.ArticlePublished)
	}
	var a models.ArticleModel
	if err := tx.First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new article authored by actor.
func (s *Service) Create(ctx context.Context, actor *models.UserModel, dto *CreateArticleDTO) (*models.ArticleModel, error) {
	var count int64
	s.db.Model(&models.ArticleModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("slug already exists")
	}

	a := models.ArticleModel{
		Title:    dto.Title,
		Slug:     dto.Slug,
		Text:     dto.Text,
		Summary:  dto.Summary,
		Tags:     dto.Tags,
		AuthorID: actor.ID,
		Status:   models.ArticleDraft,
	}
	if dto.Status != "" {
		a.Status = dto.Status
	}
	if dto.Views != nil {
		a.Views = *dto.Views
	}
	if a.IsPublished() {
		now := time.Now()
		a.PublishedAt = &now
	}

	if err := s.db.Create(&a).Error; err != nil {
		return nil, err
	}

	s.dispatcher.ArticleCreated(ctx, &a)
	return &a, nil
}

// Update patches an article, recording a revision and refreshing caches
// when the change warrants it.
func (s *Service) Update(ctx context.Context, actor *models.UserModel, id string, dto *UpdateArticleDTO) (*models.ArticleModel, error) {
	a, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	before := *a

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Slug != nil && *dto.Slug != a.Slug {
		updates["slug"] = *dto.Slug
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.Summary != nil {
		updates["summary"] = *dto.Summary
	}
	if dto.Tags != nil {
		updates["tags"] = dto.Tags
	}
	if dto.Views != nil {
		updates["views"] = *dto.Views
	}
	if dto.Status != nil && *dto.Status != a.Status {
		updates["status"] = *dto.Status
		if *dto.Status == models.ArticlePublished && a.PublishedAt == nil {
			now := time.Now()
			updates["published_at"] = &now
		}
	}

	if len(updates) == 0 {
		return a, nil
	}
	if err := s.db.Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}

	// Re-read so the dispatcher compares against what was actually
	// persisted.
	after, err := s.GetByID(id)
	if err != nil || after == nil {
		return a, err
	}

	s.dispatcher.ArticleUpdated(ctx, actor, &before, after)
	return after, nil
}

// Delete soft-deletes an article and refreshes both cached lists.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return gorm.ErrRecordNotFound
	}
	if err := s.db.Delete(&models.ArticleModel{}, "id = ?", id).Error; err != nil {
		return err
	}

	s.dispatcher.ArticleDeleted(ctx, a)
	return nil
}

// IncrementViews atomically increments the view counter. Views alone do
// not create revisions; the popular list catches up on its next rebuild.
func (s *Service) IncrementViews(id string) error {
	return s.db.Model(&models.ArticleModel{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
