package database

import (
	"github.com/techplay/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultAchievements is the built-in achievement catalog. Unlock logic
// is data-driven, so adding a tier here is all it takes to ship one.
var defaultAchievements = []models.AchievementModel{
	{Name: "First Words", Description: "Post your first comment", Icon: "💬", Criterion: models.CriterionComments, Threshold: 1},
	{Name: "Conversationalist", Description: "Post 10 comments", Icon: "🗣️", Criterion: models.CriterionComments, Threshold: 10},
	{Name: "Town Crier", Description: "Post 100 comments", Icon: "📢", Criterion: models.CriterionComments, Threshold: 100},
	{Name: "Thread Starter", Description: "Start your first forum thread", Icon: "🧵", Criterion: models.CriterionThreads, Threshold: 1},
	{Name: "Community Pillar", Description: "Start 25 forum threads", Icon: "🏛️", Criterion: models.CriterionThreads, Threshold: 25},
	{Name: "Quick Reply", Description: "Reply in a forum thread 10 times", Icon: "⚡", Criterion: models.CriterionReplies, Threshold: 10},
	{Name: "Critic", Description: "Write your first review", Icon: "⭐", Criterion: models.CriterionReviews, Threshold: 1},
	{Name: "Top Critic", Description: "Write 20 reviews", Icon: "🏆", Criterion: models.CriterionReviews, Threshold: 20},
}

// SeedAchievements inserts the built-in achievement catalog, skipping
// names that already exist. Safe to run on every boot.
func SeedAchievements(db *gorm.DB) error {
	for i := range defaultAchievements {
		a := defaultAchievements[i]
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&a).Error
		if err != nil {
			return err
		}
	}
	return nil
}
