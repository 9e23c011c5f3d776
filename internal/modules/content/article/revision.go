package article

import (
	"context"

	"github.com/techplay/core/internal/models"
	"gorm.io/gorm"
)

// RevisionRecorder appends immutable snapshots of an article's editable
// fields. Rows are never updated or deleted through this path.
type RevisionRecorder struct {
	db *gorm.DB
}

func NewRevisionRecorder(db *gorm.DB) *RevisionRecorder {
	return &RevisionRecorder{db: db}
}

// Record snapshots the article's post-update title/text/status and
// attributes the change to actorID, falling back to the owning author
// when no authenticated actor is present (system jobs). The revision
// number is 1 + the article's current maximum.
func (r *RevisionRecorder) Record(ctx context.Context, a *models.ArticleModel, actorID string) error {
	if actorID == "" {
		actorID = a.AuthorID
	}

	var maxNumber int
	if err := r.db.WithContext(ctx).Model(&models.RevisionModel{}).
		Where("article_id = ?", a.ID).
		Select("COALESCE(MAX(revision_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return err
	}

	rev := models.RevisionModel{
		ArticleID:      a.ID,
		UserID:         actorID,
		RevisionNumber: maxNumber + 1,
		Snapshot: models.ArticleSnapshot{
			Title:  a.Title,
			Text:   a.Text,
			Status: a.Status,
		},
	}
	return r.db.WithContext(ctx).Create(&rev).Error
}

// ListForArticle returns an article's revisions, newest first.
func (r *RevisionRecorder) ListForArticle(ctx context.Context, articleID string) ([]models.RevisionModel, error) {
	var revisions []models.RevisionModel
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("revision_number DESC").
		Find(&revisions).Error
	return revisions, err
}
