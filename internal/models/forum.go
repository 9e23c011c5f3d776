package models

// ThreadModel is a forum discussion opener.
type ThreadModel struct {
	Base
	Title      string             `json:"title"    gorm:"not null"`
	Text       string             `json:"text"     gorm:"type:text;not null"`
	UserID     string             `json:"user_id"  gorm:"index;not null"`
	User       *UserModel         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ReplyCount int                `json:"reply_count" gorm:"default:0"`
	Replies    []ThreadReplyModel `json:"replies,omitempty" gorm:"foreignKey:ThreadID"`
}

func (ThreadModel) TableName() string { return "threads" }

// ThreadReplyModel is a reply inside a thread.
type ThreadReplyModel struct {
	Base
	ThreadID string     `json:"thread_id" gorm:"index;not null"`
	UserID   string     `json:"user_id"   gorm:"index;not null"`
	User     *UserModel `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Text     string     `json:"text"      gorm:"type:text;not null"`
}

func (ThreadReplyModel) TableName() string { return "thread_replies" }
