package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestChapter struct {
	Title     string `json:"title"`
	SpineHref string `json:"spine_href"`
	Text      string `json:"text" validate:"required"`
}

type IngestBookRequest struct {
	Title    string          `json:"title" validate:"required"`
	Author   string          `json:"author"`
	Chapters []IngestChapter `json:"chapters" validate:"required,min=1,dive"`
}

type IngestBookResponse struct {
	Id              uuid.UUID `json:"id"`
	EmbeddingStatus string    `json:"embedding_status"`
}

type ChapterItem struct {
	ChapterIndex  int    `json:"chapter_index"`
	Title         string `json:"title"`
	SpineHref     string `json:"spine_href"`
	StartPosition int    `json:"start_position"`
	EndPosition   int    `json:"end_position"`
}

type ShowBookResponse struct {
	Id              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Author          string        `json:"author"`
	TotalChunks     int           `json:"total_chunks"`
	EmbeddingStatus string        `json:"embedding_status"`
	Chapters        []ChapterItem `json:"chapters"`
	CreatedAt       time.Time     `json:"created_at"`
}

type ListBookItem struct {
	Id              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	TotalChunks     int        `json:"total_chunks"`
	EmbeddingStatus string     `json:"embedding_status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// SearchMatchItem is one occurrence of the query inside an admissible
// chunk. Offsets are byte positions within the chunk's text.
type SearchMatchItem struct {
	ChunkId          uuid.UUID `json:"chunk_id"`
	ChapterIndex     int       `json:"chapter_index"`
	ChapterTitle     string    `json:"chapter_title"`
	PositionIndex    int       `json:"position_index"`
	SpineHref        string    `json:"spine_href"`
	AnchorText       string    `json:"anchor_text"`
	MatchOffsetStart int       `json:"match_offset_start"`
	MatchOffsetEnd   int       `json:"match_offset_end"`
	MatchText        string    `json:"match_text"`
	Snippet          string    `json:"snippet"`
}

type SearchBookResponse struct {
	Query   string            `json:"query"`
	Matches []SearchMatchItem `json:"matches"`
}
