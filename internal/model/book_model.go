package model

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string    `gorm:"type:varchar(512);not null"`
	Author          string    `gorm:"type:varchar(512)"`
	TotalChunks     int       `gorm:"default:0"`
	EmbeddingStatus string    `gorm:"type:varchar(32);default:'processing';index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       *time.Time
}

func (Book) TableName() string {
	return "books"
}
