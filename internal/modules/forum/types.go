package forum

import "errors"

var errThreadNotFound = errors.New("thread not found")

type CreateThreadDTO struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text"  binding:"required"`
}

type CreateReplyDTO struct {
	Text string `json:"text" binding:"required"`
}
