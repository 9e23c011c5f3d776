package models

import "time"

// ArticleStatus is the editorial lifecycle state of an article.
// Transition rules are editorial policy and are not enforced here; only
// entry-to/exit-from published has side effects (cache refresh).
type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticleInReview  ArticleStatus = "in_review"
	ArticlePublished ArticleStatus = "published"
)

// StringSlice is a []string that serializes as JSON in MySQL.
type StringSlice []string

// ArticleModel is an editorial news article.
type ArticleModel struct {
	Base
	Title       string        `json:"title"        gorm:"not null"`
	Slug        string        `json:"slug"         gorm:"uniqueIndex;not null"`
	Text        string        `json:"text"         gorm:"type:longtext"`
	Summary     string        `json:"summary"`
	Status      ArticleStatus `json:"status"       gorm:"default:draft;index"`
	Views       int64         `json:"views"        gorm:"default:0"`
	Tags        StringSlice   `json:"tags"         gorm:"type:json;serializer:json"`
	AuthorID    string        `json:"author_id"    gorm:"index;not null"`
	Author      *UserModel    `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	PublishedAt *time.Time    `json:"published_at" gorm:"index"`

	Revisions []RevisionModel `json:"revisions,omitempty" gorm:"foreignKey:ArticleID"`
}

func (ArticleModel) TableName() string { return "articles" }

func (a *ArticleModel) IsPublished() bool { return a.Status == ArticlePublished }

// RevisionModel is an immutable snapshot of an article's editable fields.
// Rows are only ever inserted; revision numbers increase per article.
type RevisionModel struct {
	Base
	ArticleID      string          `json:"article_id" gorm:"not null;uniqueIndex:idx_article_revision"`
	UserID         string          `json:"user_id"    gorm:"index;not null"`
	RevisionNumber int             `json:"revision_number" gorm:"not null;uniqueIndex:idx_article_revision"`
	Snapshot       ArticleSnapshot `json:"snapshot"   gorm:"type:longtext;serializer:json"`
}

func (RevisionModel) TableName() string { return "revisions" }

// ArticleSnapshot is the serialized content of a revision.
type ArticleSnapshot struct {
	Title  string        `json:"title"`
	Text   string        `json:"text"`
	Status ArticleStatus `json:"status"`
}
