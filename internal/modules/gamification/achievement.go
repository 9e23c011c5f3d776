package gamification

import (
	"context"

	"github.com/techplay/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementService evaluates counting criteria against seeded
// achievement definitions and records unlocks.
type AchievementService struct {
	db *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db}
}

// CheckUnlock unlocks every achievement keyed by criterion whose
// threshold the count has reached and the user does not hold yet, and
// returns the newly unlocked ones. Idempotent: the unlock insert is
// ON CONFLICT DO NOTHING against the unique (user, achievement) pair, so
// racing requests cannot produce duplicates. Ties on the same threshold
// unlock together.
func (s *AchievementService) CheckUnlock(ctx context.Context, userID, criterion string, count int64) ([]models.AchievementModel, error) {
	var candidates []models.AchievementModel
	err := s.db.WithContext(ctx).
		Where("criterion = ? AND threshold <= ?", criterion, count).
		Where("id NOT IN (?)", s.db.Model(&models.UserAchievementModel{}).
			Select("achievement_id").Where("user_id = ?", userID)).
		Order("threshold ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	unlocked := make([]models.AchievementModel, 0, len(candidates))
	for _, a := range candidates {
		result := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.UserAchievementModel{UserID: userID, AchievementID: a.ID})
		if result.Error != nil {
			return unlocked, result.Error
		}
		// RowsAffected == 0 means another request won the race; that
		// unlock is not ours to report.
		if result.RowsAffected > 0 {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

// ListForUser returns all achievements the user has unlocked.
func (s *AchievementService) ListForUser(ctx context.Context, userID string) ([]models.AchievementModel, error) {
	var achievements []models.AchievementModel
	err := s.db.WithContext(ctx).
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.unlocked_at ASC").
		Find(&achievements).Error
	return achievements, err
}

// ListAll returns every achievement definition.
func (s *AchievementService) ListAll(ctx context.Context) ([]models.AchievementModel, error) {
	var achievements []models.AchievementModel
	err := s.db.WithContext(ctx).Order("criterion ASC, threshold ASC").Find(&achievements).Error
	return achievements, err
}
