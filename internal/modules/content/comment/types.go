package comment

import (
	"errors"

	"github.com/techplay/core/internal/models"
)

var (
	errRefNotFound    = errors.New("comment subject not found")
	errParentNotFound = errors.New("parent comment not found")
	errParentMismatch = errors.New("parent comment belongs to another subject")
)

type CreateCommentDTO struct {
	RefType  models.RefType `json:"ref_type" binding:"required"`
	RefID    string         `json:"ref_id"   binding:"required"`
	Text     string         `json:"text"     binding:"required"`
	ParentID *string        `json:"parent_id"`
}
