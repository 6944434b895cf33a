package rag

import "errors"

// Typed failures surfaced to callers. Parsing and navigation edge cases
// are recovered internally and never reach this level.
var (
	// ErrRetrievalUnavailable means the embedding or vector search
	// capability is unreachable or timed out. Never downgraded to an
	// unfiltered search.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrAnswerGenerationFailed means the completion capability failed
	// mid-stream. Deltas already emitted stay valid; the turn is not
	// persisted.
	ErrAnswerGenerationFailed = errors.New("answer generation failed")

	// ErrNoContentReadYet means the admissible chunk set is empty. This
	// is a defined empty result, not a capability failure.
	ErrNoContentReadYet = errors.New("no content read yet")
)
