package specification

import (
	"book-companion-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByBookID struct {
	BookID uuid.UUID
}

func (s ByBookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("book_id = ?", s.BookID)
}

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByEmbeddingStatus struct {
	Status entity.EmbeddingStatus
}

func (s ByEmbeddingStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding_status = ?", s.Status)
}

// InReadingOrder sorts chunks or chapters by their position in the book.
type InReadingOrder struct{}

func (s InReadingOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("chapter_index ASC, position_index ASC")
}

// AtOrBefore keeps rows whose (chapter_index, position_index) does not
// exceed the given reading position.
type AtOrBefore struct {
	ChapterIndex  int
	PositionIndex int
}

func (s AtOrBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(chapter_index < ? OR (chapter_index = ? AND position_index <= ?))",
		s.ChapterIndex, s.ChapterIndex, s.PositionIndex,
	)
}
