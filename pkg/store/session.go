package store

import (
	"context"
	"sync"

	"book-companion-be/pkg/readhistory"
)

// ReaderSession is the in-memory state for one reader on one book: the
// navigation stacks and the handle to any in-flight answer stream.
// All access goes through the session's lock so a new question can
// safely cancel the previous stream.
type ReaderSession struct {
	mu sync.Mutex

	ID     string // SessionID
	BookID string

	History *readhistory.Stack
	Returns *readhistory.ReturnStack

	hydrated     bool
	cancelStream context.CancelFunc
	streamGen    uint64
}

func NewReaderSession(bookID, sessionID string) *ReaderSession {
	return &ReaderSession{
		ID:      sessionID,
		BookID:  bookID,
		History: readhistory.NewStack(readhistory.DefaultCap),
		Returns: readhistory.NewReturnStack(readhistory.DefaultCap),
	}
}

// Navigate runs fn with exclusive access to the session's stacks.
func (s *ReaderSession) Navigate(fn func(history *readhistory.Stack, returns *readhistory.ReturnStack) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.History, s.Returns)
}

// ReplaceStream cancels any in-flight stream and installs the new
// cancel handle. One question per session runs at a time. The returned
// token identifies the installed handle for FinishStream.
func (s *ReaderSession) ReplaceStream(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelStream != nil {
		s.cancelStream()
	}
	s.cancelStream = cancel
	s.streamGen++
	return s.streamGen
}

// FinishStream drops the cancel handle once the stream that installed
// it has ended. A preempted stream finishing late carries a stale
// token and must not clear the handle the newer stream installed.
func (s *ReaderSession) FinishStream(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.streamGen {
		return
	}
	s.cancelStream = nil
}

// CancelActive aborts the in-flight stream, if any.
func (s *ReaderSession) CancelActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelStream != nil {
		s.cancelStream()
		s.cancelStream = nil
	}
}

// Hydrated reports whether the history stack was seeded from
// persistent turns already.
func (s *ReaderSession) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *ReaderSession) SetHydrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
}
