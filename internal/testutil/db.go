package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techplay/core/internal/database"
	"github.com/techplay/core/internal/models"
)

// OpenTestDB opens an in-memory SQLite database with the full schema.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// Every pooled connection to ":memory:" gets its own database, so
	// pin the pool to one connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// CreateUser inserts a member user and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.UserModel {
	t.Helper()

	u := models.UserModel{
		Username: username,
		Name:     username,
		Password: "x",
		Role:     models.RoleMember,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &u
}
