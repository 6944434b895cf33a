package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Chunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookId         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_chunks_book_order,priority:1"`
	ChapterIndex   int             `gorm:"not null;uniqueIndex:idx_chunks_book_order,priority:2"`
	ChapterTitle   string          `gorm:"type:varchar(512)"`
	PositionIndex  int             `gorm:"not null;uniqueIndex:idx_chunks_book_order,priority:3"`
	Text           string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"` // OpenAI text-embedding-3-small uses 1536 dimensions
	SpineHref      string          `gorm:"type:varchar(512)"`
	AnchorText     string          `gorm:"type:varchar(256)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
