package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is one question/answer turn. Immutable once created;
// deleted only with the owning book.
type Conversation struct {
	Id        uuid.UUID
	BookId    uuid.UUID
	SessionId uuid.UUID
	Question  string
	Answer    string
	Model     string

	// Reading position snapshot at ask time.
	AskChapterIndex  int
	AskPositionIndex int

	Citations []ConversationCitation
	CreatedAt time.Time
}

// ConversationCitation is a resolved citation ordered by DisplayIndex.
type ConversationCitation struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	ChunkId        uuid.UUID
	DisplayIndex   int
	ChapterIndex   int
	PositionIndex  int
	Location       SourceLocation
	Snippet        string
	CreatedAt      time.Time
}
