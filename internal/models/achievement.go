package models

import "time"

// Criterion keys the evaluator recognizes out of the box. The evaluator
// itself is data-driven: seeding an achievement with a new key is enough,
// no code change required.
const (
	CriterionComments = "comments_count"
	CriterionThreads  = "threads_count"
	CriterionReplies  = "replies_count"
	CriterionReviews  = "reviews_count"
)

// AchievementModel is a milestone definition, created by seed data.
type AchievementModel struct {
	Base
	Name        string `json:"name"        gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Criterion   string `json:"criterion"   gorm:"index;not null"`
	Threshold   int64  `json:"threshold"   gorm:"not null"`
}

func (AchievementModel) TableName() string { return "achievements" }

// UserAchievementModel is the unlock join row. The unique pair index is
// the dedup point for concurrent unlock attempts: inserts race, the
// constraint wins, duplicates become no-ops. Unlocks are never revoked.
type UserAchievementModel struct {
	UserID        string    `json:"user_id"        gorm:"primaryKey;uniqueIndex:idx_user_achievement"`
	AchievementID string    `json:"achievement_id" gorm:"primaryKey;uniqueIndex:idx_user_achievement"`
	UnlockedAt    time.Time `json:"unlocked_at"    gorm:"autoCreateTime"`
}

func (UserAchievementModel) TableName() string { return "user_achievements" }
