package models

// GameModel is a catalog entry ratings attach to.
type GameModel struct {
	Base
	Slug        string `json:"slug"  gorm:"uniqueIndex;not null"`
	Title       string `json:"title" gorm:"not null"`
	Cover       string `json:"cover"`
	Description string `json:"description" gorm:"type:text"`
}

func (GameModel) TableName() string { return "games" }

// ProductModel is a shop item reviews attach to. Checkout and payment are
// handled by the external billing integration; this side only needs the
// subject row.
type ProductModel struct {
	Base
	Name        string `json:"name"  gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	PriceCents  int64  `json:"price_cents" gorm:"default:0"`
	Image       string `json:"image"`
}

func (ProductModel) TableName() string { return "products" }
