package model

import (
	"github.com/google/uuid"
)

type Chapter struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookId        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chapters_book_chapter,priority:1"`
	ChapterIndex  int       `gorm:"not null;uniqueIndex:idx_chapters_book_chapter,priority:2"`
	Title         string    `gorm:"type:varchar(512)"`
	SpineHref     string    `gorm:"type:varchar(512)"`
	StartPosition int       `gorm:"default:0"`
	EndPosition   int       `gorm:"default:0"`
}

func (Chapter) TableName() string {
	return "chapters"
}
