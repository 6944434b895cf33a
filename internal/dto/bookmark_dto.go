package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookmarkRequest struct {
	ChapterIndex   int      `json:"chapter_index" validate:"min=0"`
	ChapterPercent *float64 `json:"chapter_percent" validate:"omitempty,min=0,max=100"`
	BookPercent    *float64 `json:"book_percent" validate:"omitempty,min=0,max=100"`
	Label          string   `json:"label"`
}

type BookmarkItem struct {
	Id             uuid.UUID `json:"id"`
	ChapterIndex   int       `json:"chapter_index"`
	ChapterPercent *float64  `json:"chapter_percent,omitempty"`
	BookPercent    *float64  `json:"book_percent,omitempty"`
	Label          string    `json:"label"`
	CreatedAt      time.Time `json:"created_at"`
}
