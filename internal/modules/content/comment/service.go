package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pipeline"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct {
	db         *gorm.DB
	dispatcher *pipeline.Dispatcher
}

func NewService(db *gorm.DB, dispatcher *pipeline.Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

// List returns comments, newest first, optionally filtered by subject.
func (s *Service) List(q pagination.Query, refType *models.RefType, refID *string) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Preload("User").
		Order("created_at DESC")

	if refType != nil {
		tx = tx.Where("ref_type = ?", *refType)
	}
	if refID != nil {
		tx = tx.Where("ref_id = ?", *refID)
	}

	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	return comments, pag, err
}

// GetByID fetches one comment with its direct children.
func (s *Service) GetByID(id string) (*models.CommentModel, error) {
	var c models.CommentModel
	if err := s.db.Preload("User").Preload("Children").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Create persists a new comment by actor and dispatches the pipeline
// side effects. The primary insert fails loudly; the side effects never
// do.
func (s *Service) Create(ctx context.Context, actor *models.UserModel, dto *CreateCommentDTO) (*models.CommentModel, error) {
	refID := strings.TrimSpace(dto.RefID)
	if refID == "" || !s.refExists(dto.RefType, refID) {
		return nil, errRefNotFound
	}

	if dto.ParentID != nil {
		var parent models.CommentModel
		if err := s.db.First(&parent, "id = ?", *dto.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errParentNotFound
			}
			return nil, err
		}
		if parent.RefType != dto.RefType || parent.RefID != refID {
			return nil, errParentMismatch
		}
	}

	c := models.CommentModel{
		RefType:  dto.RefType,
		RefID:    refID,
		UserID:   actor.ID,
		Text:     dto.Text,
		ParentID: dto.ParentID,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, err
	}

	s.dispatcher.CommentCreated(ctx, actor, &c)
	return &c, nil
}

// Delete removes a comment; admins only, no pipeline involvement (XP is
// never clawed back).
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.CommentModel{}, "id = ?", id).Error
}

// refExists resolves the tagged {kind, id} subject through the closed
// commentable set. Unknown kinds simply do not resolve.
func (s *Service) refExists(refType models.RefType, refID string) bool {
	var count int64
	switch refType {
	case models.RefTypeArticle:
		s.db.Model(&models.ArticleModel{}).Where("id = ?", refID).Count(&count)
	case models.RefTypeProduct:
		s.db.Model(&models.ProductModel{}).Where("id = ?", refID).Count(&count)
	default:
		return false
	}
	return count > 0
}
