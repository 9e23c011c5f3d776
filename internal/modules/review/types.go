package review

import "errors"

var (
	errSubjectNotFound = errors.New("review subject not found")
	errAlreadyReviewed = errors.New("user already reviewed this subject")
)

type CreateReviewDTO struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// Summary is the aggregate returned alongside a subject's review list.
type Summary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}
