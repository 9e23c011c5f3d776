package activity

import (
	"context"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service is the append-only audit sink. This core only writes; the
// paged read exists for the external reporting view.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Record appends one audit row.
func (s *Service) Record(ctx context.Context, actorID string, refType models.RefType, refID, description string) error {
	entry := models.ActivityModel{
		ActorID:     actorID,
		RefType:     refType,
		RefID:       refID,
		Description: description,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// List returns audit rows, newest first, optionally filtered by actor.
func (s *Service) List(q pagination.Query, actorID *string) ([]models.ActivityModel, response.Pagination, error) {
	tx := s.db.Model(&models.ActivityModel{}).
		Preload("Actor").
		Order("created_at DESC")
	if actorID != nil {
		tx = tx.Where("actor_id = ?", *actorID)
	}

	var entries []models.ActivityModel
	pag, err := pagination.Paginate(tx, q, &entries)
	return entries, pag, err
}
