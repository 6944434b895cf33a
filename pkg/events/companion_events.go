package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes published to the bus.
const (
	TypeBookIngested  = "BOOK_INGESTED"
	TypeBookFailed    = "BOOK_INGEST_FAILED"
	TypeBookDeleted   = "BOOK_DELETED"
	TypeTurnCompleted = "TURN_COMPLETED"
)

func NewBookIngested(bookId uuid.UUID, totalChunks int) Event {
	return BaseEvent{
		Type: TypeBookIngested,
		Data: map[string]interface{}{
			"book_id":      bookId.String(),
			"total_chunks": totalChunks,
		},
		OccurredAt: time.Now(),
	}
}

func NewBookIngestFailed(bookId uuid.UUID, reason string) Event {
	return BaseEvent{
		Type: TypeBookFailed,
		Data: map[string]interface{}{
			"book_id": bookId.String(),
			"reason":  reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewBookDeleted(bookId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeBookDeleted,
		Data: map[string]interface{}{
			"book_id": bookId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewTurnCompleted(bookId, conversationId uuid.UUID, citationCount int) Event {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"book_id":         bookId.String(),
			"conversation_id": conversationId.String(),
			"citations":       citationCount,
		},
		OccurredAt: time.Now(),
	}
}
