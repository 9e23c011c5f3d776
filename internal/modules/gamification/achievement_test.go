package gamification

import (
	"context"
	"testing"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/testutil"
	"gorm.io/gorm"
)

func seedAchievement(t *testing.T, db *gorm.DB, name, criterion string, threshold int64) models.AchievementModel {
	t.Helper()
	a := models.AchievementModel{Name: name, Criterion: criterion, Threshold: threshold}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed achievement %s: %v", name, err)
	}
	return a
}

func TestCheckUnlock_BelowThreshold(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	seedAchievement(t, db, "First Words", models.CriterionComments, 1)
	svc := NewAchievementService(db)

	unlocked, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 0)
	if err != nil {
		t.Fatalf("check unlock: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked %d achievements below threshold, want 0", len(unlocked))
	}
}

func TestCheckUnlock_AtThreshold(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	a := seedAchievement(t, db, "First Words", models.CriterionComments, 1)
	svc := NewAchievementService(db)

	unlocked, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 1)
	if err != nil {
		t.Fatalf("check unlock: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != a.ID {
		t.Fatalf("unlocked = %+v, want exactly %q", unlocked, a.Name)
	}
}

func TestCheckUnlock_Idempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	seedAchievement(t, db, "First Words", models.CriterionComments, 1)
	svc := NewAchievementService(db)

	first, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 5)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first check unlocked %d, want 1", len(first))
	}

	second, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 6)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second check unlocked %d, want 0", len(second))
	}

	var rows int64
	db.Model(&models.UserAchievementModel{}).Where("user_id = ?", u.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("unlock rows = %d, want 1", rows)
	}
}

func TestCheckUnlock_TiesUnlockTogether(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	seedAchievement(t, db, "Ten A", models.CriterionComments, 10)
	seedAchievement(t, db, "Ten B", models.CriterionComments, 10)
	svc := NewAchievementService(db)

	unlocked, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 10)
	if err != nil {
		t.Fatalf("check unlock: %v", err)
	}
	if len(unlocked) != 2 {
		t.Fatalf("unlocked %d achievements, want both tied ones", len(unlocked))
	}
}

func TestCheckUnlock_IgnoresOtherCriteria(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	seedAchievement(t, db, "Critic", models.CriterionReviews, 1)
	svc := NewAchievementService(db)

	unlocked, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 100)
	if err != nil {
		t.Fatalf("check unlock: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked %d achievements under the wrong criterion", len(unlocked))
	}
}

func TestListForUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	other := testutil.CreateUser(t, db, "bob")
	a := seedAchievement(t, db, "First Words", models.CriterionComments, 1)
	seedAchievement(t, db, "Critic", models.CriterionReviews, 1)
	svc := NewAchievementService(db)

	if _, err := svc.CheckUnlock(context.Background(), u.ID, models.CriterionComments, 1); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	mine, err := svc.ListForUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != a.ID {
		t.Fatalf("list = %+v, want only %q", mine, a.Name)
	}

	theirs, err := svc.ListForUser(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("other user has %d achievements, want 0", len(theirs))
	}
}
