package dto

import "time"

type UpdatePositionRequest struct {
	ChapterIndex   int      `json:"chapter_index" validate:"min=0"`
	PositionIndex  int      `json:"position_index" validate:"min=0"`
	ChapterPercent *float64 `json:"chapter_percent" validate:"omitempty,min=0,max=100"`
	BookPercent    *float64 `json:"book_percent" validate:"omitempty,min=0,max=100"`
}

type PositionResponse struct {
	ChapterIndex   int        `json:"chapter_index"`
	PositionIndex  int        `json:"position_index"`
	ChapterPercent *float64   `json:"chapter_percent,omitempty"`
	BookPercent    *float64   `json:"book_percent,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
