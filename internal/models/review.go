package models

// ReviewModel is a rated review of a game or a shop product.
// Rating bounds are validated at the HTTP boundary; the unique index keeps
// one review per (user, subject).
type ReviewModel struct {
	Base
	RefType RefType    `json:"ref_type" gorm:"not null;uniqueIndex:idx_review_subject"`
	RefID   string     `json:"ref_id"   gorm:"not null;uniqueIndex:idx_review_subject"`
	UserID  string     `json:"user_id"  gorm:"not null;uniqueIndex:idx_review_subject"`
	User    *UserModel `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Rating  int        `json:"rating"   gorm:"not null"`
	Text    string     `json:"text"     gorm:"type:text"`
}

func (ReviewModel) TableName() string { return "reviews" }
