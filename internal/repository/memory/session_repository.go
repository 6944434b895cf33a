package memory

import (
	"time"

	"book-companion-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions idle for an hour are dropped; the history stack is
	// rebuilt from the conversations table on the next request.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func sessionKey(bookID, sessionID string) string {
	return bookID + ":" + sessionID
}

// GetOrCreate returns the live session for this reader/book pair,
// creating and caching a fresh one when none exists.
func (r *SessionRepository) GetOrCreate(bookID, sessionID string) *store.ReaderSession {
	key := sessionKey(bookID, sessionID)
	if x, found := r.cache.Get(key); found {
		session := x.(*store.ReaderSession)
		r.cache.Set(key, session, cache.DefaultExpiration) // sliding expiry
		return session
	}
	session := store.NewReaderSession(bookID, sessionID)
	r.cache.Set(key, session, cache.DefaultExpiration)
	return session
}

func (r *SessionRepository) Get(bookID, sessionID string) (*store.ReaderSession, bool) {
	if x, found := r.cache.Get(sessionKey(bookID, sessionID)); found {
		return x.(*store.ReaderSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(bookID, sessionID string) {
	r.cache.Delete(sessionKey(bookID, sessionID))
}

// DeleteByBook evicts every live session for a book. Called when the
// book itself is deleted.
func (r *SessionRepository) DeleteByBook(bookID string) {
	prefix := bookID + ":"
	for key := range r.cache.Items() {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			r.cache.Delete(key)
		}
	}
}
