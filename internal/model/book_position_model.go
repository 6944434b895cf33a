package model

import (
	"time"

	"github.com/google/uuid"
)

type BookPosition struct {
	BookId         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChapterIndex   int       `gorm:"not null"`
	PositionIndex  int       `gorm:"not null"`
	ChapterPercent *float64
	BookPercent    *float64
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (BookPosition) TableName() string {
	return "book_positions"
}
