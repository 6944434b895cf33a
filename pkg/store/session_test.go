package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceStreamCancelsPrevious(t *testing.T) {
	s := NewReaderSession("book", "session")

	ctxA, cancelA := context.WithCancel(context.Background())
	s.ReplaceStream(cancelA)

	_, cancelB := context.WithCancel(context.Background())
	s.ReplaceStream(cancelB)

	assert.ErrorIs(t, ctxA.Err(), context.Canceled)
}

func TestFinishStreamWithStaleTokenKeepsNewerHandle(t *testing.T) {
	s := NewReaderSession("book", "session")

	// Ask A starts, ask B preempts it, then A's deferred finish fires
	// while B is still streaming. B's handle must survive so ask C can
	// still cancel B.
	_, cancelA := context.WithCancel(context.Background())
	tokenA := s.ReplaceStream(cancelA)

	ctxB, cancelB := context.WithCancel(context.Background())
	s.ReplaceStream(cancelB)

	s.FinishStream(tokenA)

	require.NoError(t, ctxB.Err())

	_, cancelC := context.WithCancel(context.Background())
	s.ReplaceStream(cancelC)

	assert.ErrorIs(t, ctxB.Err(), context.Canceled)
}

func TestFinishStreamWithOwnTokenClearsHandle(t *testing.T) {
	s := NewReaderSession("book", "session")

	ctxA, cancelA := context.WithCancel(context.Background())
	tokenA := s.ReplaceStream(cancelA)
	s.FinishStream(tokenA)

	// The handle is gone, so CancelActive has nothing to abort.
	s.CancelActive()
	assert.NoError(t, ctxA.Err())
}
