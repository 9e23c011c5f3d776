package gamification

import (
	"context"
	"fmt"

	"github.com/techplay/core/internal/models"
	"gorm.io/gorm"
)

// XPLedger accumulates experience points on the user row.
type XPLedger struct {
	db *gorm.DB
}

func NewXPLedger(db *gorm.DB) *XPLedger {
	return &XPLedger{db: db}
}

// AwardXP credits amount to the user with a single store-side increment.
// Concurrent awards are commutative additions; no read-modify-write at
// the application layer, so no lost updates.
func (l *XPLedger) AwardXP(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("xp amount must be positive, got %d", amount)
	}
	result := l.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}

// GetXP reads the user's current total.
func (l *XPLedger) GetXP(ctx context.Context, userID string) (int64, error) {
	var user models.UserModel
	if err := l.db.WithContext(ctx).Select("xp").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	return user.XP, nil
}
