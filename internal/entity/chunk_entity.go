package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceLocation is an opaque locator the reader UI can navigate to.
// It is carried through citations and never used for ranking.
type SourceLocation struct {
	SpineHref  string `json:"spine_href"`
	AnchorText string `json:"anchor_text"`
}

// Chunk is a write-once unit of book text. (ChapterIndex, PositionIndex)
// forms a strictly increasing total order over a book's chunks.
type Chunk struct {
	Id             uuid.UUID
	BookId         uuid.UUID
	ChapterIndex   int
	ChapterTitle   string
	PositionIndex  int
	Text           string
	EmbeddingValue []float32
	Location       SourceLocation
	CreatedAt      time.Time
}
