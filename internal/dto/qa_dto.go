package dto

import (
	"time"

	"github.com/google/uuid"
)

type AskRequest struct {
	BookId    uuid.UUID
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Question  string    `json:"question" validate:"required"`
	Model     string    `json:"model"`
}

// AskEvent is one NDJSON line of the answer stream. Type is "delta"
// while tokens arrive, then exactly one "done" or "error".
type AskEvent struct {
	Type           string         `json:"type"`
	Delta          string         `json:"delta,omitempty"`
	ConversationId *uuid.UUID     `json:"conversation_id,omitempty"`
	Answer         string         `json:"answer,omitempty"`
	Citations      []CitationItem `json:"citations,omitempty"`
	Message        string         `json:"message,omitempty"`
}

const (
	AskEventDelta = "delta"
	AskEventDone  = "done"
	AskEventError = "error"
)

type CitationItem struct {
	ChunkId       uuid.UUID `json:"chunk_id"`
	DisplayIndex  int       `json:"display_index"`
	ChapterIndex  int       `json:"chapter_index"`
	PositionIndex int       `json:"position_index"`
	SpineHref     string    `json:"spine_href"`
	AnchorText    string    `json:"anchor_text"`
	Snippet       string    `json:"snippet"`
}

type TurnItem struct {
	Id               uuid.UUID      `json:"id"`
	Question         string         `json:"question"`
	Answer           string         `json:"answer"`
	Model            string         `json:"model,omitempty"`
	AskChapterIndex  int            `json:"ask_chapter_index"`
	AskPositionIndex int            `json:"ask_position_index"`
	Citations        []CitationItem `json:"citations"`
	CreatedAt        time.Time      `json:"created_at"`
}

type HistoryResponse struct {
	Turns  []TurnItem `json:"turns"`
	Cursor int        `json:"cursor"`
}

// ConversationsResponse pages through the full durable turn log, unlike
// the capped navigable window in HistoryResponse.
type ConversationsResponse struct {
	Turns []TurnItem `json:"turns"`
	Total int64      `json:"total"`
}

type NavigateResponse struct {
	Turn   *TurnItem `json:"turn"`
	Cursor int       `json:"cursor"`
}

// SessionRequest identifies the reader session for navigation calls
// that carry no other payload.
type SessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}

// JumpRequest records the position the reader left before following a
// citation, so they can return to it later. ChunkId names the cited
// passage being jumped to.
type JumpRequest struct {
	BookId        uuid.UUID
	SessionId     uuid.UUID `json:"session_id" validate:"required"`
	ChunkId       uuid.UUID `json:"chunk_id" validate:"required"`
	ChapterIndex  int       `json:"chapter_index" validate:"min=0"`
	PositionIndex int       `json:"position_index" validate:"min=0"`
}

// JumpResponse is the target the reader UI should navigate to.
type JumpResponse struct {
	ChapterIndex  int    `json:"chapter_index"`
	PositionIndex int    `json:"position_index"`
	SpineHref     string `json:"spine_href"`
	AnchorText    string `json:"anchor_text"`
}

type ReturnResponse struct {
	ChapterIndex  int `json:"chapter_index"`
	PositionIndex int `json:"position_index"`
}
