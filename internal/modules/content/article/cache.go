package article

import (
	"context"
	"encoding/json"
	"time"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pkg/markdown"
	redisc "github.com/techplay/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	cacheKeyLatest  = "tp:cache:articles:latest"
	cacheKeyPopular = "tp:cache:articles:popular"
)

// CachedArticle is one entry of a cached read-side list. The body is
// pre-rendered so the front end serves it as-is.
type CachedArticle struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Summary     string             `json:"summary"`
	HTML        string             `json:"html"`
	Tags        models.StringSlice `json:"tags"`
	Views       int64              `json:"views"`
	AuthorID    string             `json:"author_id"`
	PublishedAt *time.Time         `json:"published_at"`
}

// CacheService maintains the cached latest/popular article lists.
// Refreshes are full rebuilds: article volume is editorial-scale, and a
// rebuild keeps the operations idempotent. A failed refresh leaves the
// previous artifact in place; the periodic rebuild job is the safety
// net.
type CacheService struct {
	db       *gorm.DB
	rc       *redisc.Client
	listSize int
	logger   *zap.Logger
}

func NewCacheService(db *gorm.DB, rc *redisc.Client, listSize int, logger *zap.Logger) *CacheService {
	if listSize <= 0 {
		listSize = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{db: db, rc: rc, listSize: listSize, logger: logger.Named("article-cache")}
}

// RefreshLatest rebuilds the recency-ordered list of published articles.
func (s *CacheService) RefreshLatest(ctx context.Context) error {
	return s.rebuild(ctx, cacheKeyLatest, "published_at DESC")
}

// RefreshPopular rebuilds the view-count-ordered list of published
// articles.
func (s *CacheService) RefreshPopular(ctx context.Context) error {
	return s.rebuild(ctx, cacheKeyPopular, "views DESC")
}

// RefreshAll rebuilds both lists; used by the periodic safety-net job.
func (s *CacheService) RefreshAll(ctx context.Context) error {
	if err := s.RefreshLatest(ctx); err != nil {
		return err
	}
	return s.RefreshPopular(ctx)
}

func (s *CacheService) rebuild(ctx context.Context, key, order string) error {
	var articles []models.ArticleModel
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.ArticlePublished).
		Order(order).
		Limit(s.listSize).
		Find(&articles).Error; err != nil {
		return err
	}

	entries := make([]CachedArticle, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, CachedArticle{
			ID:          a.ID,
			Title:       a.Title,
			Slug:        a.Slug,
			Summary:     a.Summary,
			HTML:        markdown.Render(a.Text),
			Tags:        a.Tags,
			Views:       a.Views,
			AuthorID:    a.AuthorID,
			PublishedAt: a.PublishedAt,
		})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.rc.Set(ctx, key, data, 0); err != nil {
		return err
	}

	s.logger.Debug("cache rebuilt", zap.String("key", key), zap.Int("entries", len(entries)))
	return nil
}

// Latest serves the cached recency list, rebuilding once on a cold
// cache.
func (s *CacheService) Latest(ctx context.Context) ([]CachedArticle, error) {
	return s.read(ctx, cacheKeyLatest, s.RefreshLatest)
}

// Popular serves the cached view-count list, rebuilding once on a cold
// cache.
func (s *CacheService) Popular(ctx context.Context) ([]CachedArticle, error) {
	return s.read(ctx, cacheKeyPopular, s.RefreshPopular)
}

func (s *CacheService) read(ctx context.Context, key string, refresh func(context.Context) error) ([]CachedArticle, error) {
	raw, err := s.rc.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		if err := refresh(ctx); err != nil {
			return nil, err
		}
		if raw, err = s.rc.Get(ctx, key); err != nil {
			return nil, err
		}
	}
	if raw == "" {
		return []CachedArticle{}, nil
	}

	var entries []CachedArticle
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
