package dto

import "github.com/google/uuid"

// PublishIngestBookMessage is the payload carried over the in-process
// bus from the ingest endpoint to the embedding worker. The chapter
// text rides along because chunks only exist after the worker splits
// and embeds it.
type PublishIngestBookMessage struct {
	BookId   uuid.UUID       `json:"book_id"`
	Chapters []IngestChapter `json:"chapters"`
}
