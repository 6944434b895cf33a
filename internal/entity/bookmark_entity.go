package entity

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	Id             uuid.UUID
	BookId         uuid.UUID
	ChapterIndex   int
	ChapterPercent *float64
	BookPercent    *float64
	Label          string
	CreatedAt      time.Time
}
