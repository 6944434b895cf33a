package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReadingPosition is the per-book current position. ChapterIndex and
// PositionIndex drive the retrieval gate; the percent fields are kept
// for display only.
type ReadingPosition struct {
	BookId         uuid.UUID
	ChapterIndex   int
	PositionIndex  int
	ChapterPercent *float64
	BookPercent    *float64
	UpdatedAt      time.Time
}
