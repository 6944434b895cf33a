package unitofwork

import (
	"context"

	"book-companion-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BookRepository() contract.BookRepository
	ChapterRepository() contract.ChapterRepository
	ChunkRepository() contract.ChunkRepository
	PositionRepository() contract.PositionRepository

	ConversationRepository() contract.ConversationRepository
	ConversationCitationRepository() contract.ConversationCitationRepository
	BookmarkRepository() contract.BookmarkRepository
	SettingRepository() contract.SettingRepository
}
