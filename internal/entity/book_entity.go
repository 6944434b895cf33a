package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddingStatus tracks the ingest lifecycle of a book.
// Chunks become visible to readers only when the status is "ready".
type EmbeddingStatus string

const (
	EmbeddingStatusProcessing EmbeddingStatus = "processing"
	EmbeddingStatusReady      EmbeddingStatus = "ready"
	EmbeddingStatusFailed     EmbeddingStatus = "failed"
)

type Book struct {
	Id              uuid.UUID
	Title           string
	Author          string
	TotalChunks     int
	EmbeddingStatus EmbeddingStatus
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type Chapter struct {
	Id            uuid.UUID
	BookId        uuid.UUID
	ChapterIndex  int
	Title         string
	SpineHref     string
	StartPosition int
	EndPosition   int
}
