package models

// CommentModel is a comment attached to an article or a shop product.
// The {RefType, RefID} pair is the closed tagged reference; resolution
// lives in the comment service, not in reflection.
type CommentModel struct {
	Base
	RefType  RefType        `json:"ref_type"  gorm:"not null;index:idx_comment_ref"`
	RefID    string         `json:"ref_id"    gorm:"not null;index:idx_comment_ref"`
	UserID   string         `json:"user_id"   gorm:"index;not null"`
	User     *UserModel     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Text     string         `json:"text"      gorm:"type:text;not null"`
	ParentID *string        `json:"parent_id" gorm:"index"`
	Children []CommentModel `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

func (CommentModel) TableName() string { return "comments" }
