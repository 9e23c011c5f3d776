package review

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pipeline"
)

type Service struct {
	db         *gorm.DB
	dispatcher *pipeline.Dispatcher
}

func NewService(db *gorm.DB, dispatcher *pipeline.Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

// ResolveGame looks a game up by its slug. Returns (nil, nil) when absent.
func (s *Service) ResolveGame(slug string) (*models.GameModel, error) {
	var game models.GameModel
	if err := s.db.Where("slug = ?", slug).First(&game).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// ResolveProduct looks a product up by id. Returns (nil, nil) when absent.
func (s *Service) ResolveProduct(id string) (*models.ProductModel, error) {
	var product models.ProductModel
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListForSubject returns all reviews for one subject, newest first, plus
// the count/average aggregate.
func (s *Service) ListForSubject(refType models.RefType, refID string) ([]models.ReviewModel, *Summary, error) {
	var reviews []models.ReviewModel
	err := s.db.Where("ref_type = ? AND ref_id = ?", refType, refID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, nil, err
	}

	summary := &Summary{Count: int64(len(reviews))}
	if len(reviews) > 0 {
		var total int64
		for i := range reviews {
			total += int64(reviews[i].Rating)
		}
		summary.Average = float64(total) / float64(len(reviews))
	}
	return reviews, summary, nil
}

// Create stores a review for the subject. refID is the subject's primary
// key; the handler resolves slugs before calling in. One review per
// (user, subject); a duplicate reports errAlreadyReviewed and leaves the
// original intact.
func (s *Service) Create(ctx context.Context, user *models.UserModel, refType models.RefType, refID string, dto *CreateReviewDTO) (*models.ReviewModel, error) {
	exists, err := s.subjectExists(refType, refID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errSubjectNotFound
	}

	review := models.ReviewModel{
		RefType: refType,
		RefID:   refID,
		UserID:  user.ID,
		Rating:  dto.Rating,
		Text:    dto.Text,
	}

	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&review)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errAlreadyReviewed
	}

	s.dispatcher.ReviewCreated(ctx, user, &review)
	return &review, nil
}

func (s *Service) subjectExists(refType models.RefType, refID string) (bool, error) {
	var count int64
	var err error
	switch refType {
	case models.RefTypeGame:
		err = s.db.Model(&models.GameModel{}).Where("id = ?", refID).Count(&count).Error
	case models.RefTypeProduct:
		err = s.db.Model(&models.ProductModel{}).Where("id = ?", refID).Count(&count).Error
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
