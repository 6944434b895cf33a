package model

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookId         uuid.UUID `gorm:"type:uuid;not null;index"`
	ChapterIndex   int
	ChapterPercent *float64
	BookPercent    *float64
	Label          string    `gorm:"type:varchar(256)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
