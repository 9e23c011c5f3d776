package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for all entities. IDs are UUID strings assigned
// on create so that rows can be referenced across stores without a
// round-trip for the generated key.
type Base struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time      `json:"created"`
	UpdatedAt time.Time      `json:"modified"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// RefType tags a polymorphic {ref_type, ref_id} reference. The set is
// closed; new subjects require a new constant here, not runtime
// reflection.
type RefType string

const (
	RefTypeArticle RefType = "article"
	RefTypeGame    RefType = "game"
	RefTypeProduct RefType = "product"
	RefTypeThread  RefType = "thread"
	RefTypeReview  RefType = "review"
	RefTypeComment RefType = "comment"
)
