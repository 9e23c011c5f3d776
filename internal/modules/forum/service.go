package forum

import (
	"context"
	"errors"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/pipeline"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db         *gorm.DB
	dispatcher *pipeline.Dispatcher
	logger     *zap.Logger
}

func NewService(db *gorm.DB, dispatcher *pipeline.Dispatcher, logger *zap.Logger) *Service {
	return &Service{db: db, dispatcher: dispatcher, logger: logger}
}

// ListThreads returns threads, newest first.
func (s *Service) ListThreads(q pagination.Query) ([]models.ThreadModel, response.Pagination, error) {
	tx := s.db.Model(&models.ThreadModel{}).
		Preload("User").
		Order("created_at DESC")

	var threads []models.ThreadModel
	pag, err := pagination.Paginate(tx, q, &threads)
	return threads, pag, err
}

// GetThread fetches one thread with its replies.
func (s *Service) GetThread(id string) (*models.ThreadModel, error) {
	var t models.ThreadModel
	err := s.db.Preload("User").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Replies.User").
		First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// CreateThread persists a new thread by actor and dispatches the
// pipeline side effects.
func (s *Service) CreateThread(ctx context.Context, actor *models.UserModel, dto *CreateThreadDTO) (*models.ThreadModel, error) {
	t := models.ThreadModel{
		Title:  dto.Title,
		Text:   dto.Text,
		UserID: actor.ID,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, err
	}

	s.dispatcher.ThreadCreated(ctx, actor, &t)
	return &t, nil
}

// CreateReply persists a reply on a thread and dispatches the pipeline
// side effects. The stored reply counter is a denormalized display
// value, incremented atomically.
func (s *Service) CreateReply(ctx context.Context, actor *models.UserModel, threadID string, dto *CreateReplyDTO) (*models.ThreadReplyModel, error) {
	var count int64
	if err := s.db.Model(&models.ThreadModel{}).Where("id = ?", threadID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errThreadNotFound
	}

	r := models.ThreadReplyModel{
		ThreadID: threadID,
		UserID:   actor.ID,
		Text:     dto.Text,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, err
	}
	// The counter is display-only; a failed increment must not fail the
	// reply that is already persisted.
	if err := s.db.Model(&models.ThreadModel{}).Where("id = ?", threadID).
		UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
		s.logger.Warn("reply counter increment failed",
			zap.String("thread_id", threadID), zap.Error(err))
	}

	s.dispatcher.ReplyCreated(ctx, actor, &r)
	return &r, nil
}
