package contract

import (
	"context"

	"book-companion-be/internal/entity"

	"github.com/google/uuid"
)

type PositionRepository interface {
	// Upsert writes the per-book position, last write wins.
	Upsert(ctx context.Context, position *entity.ReadingPosition) error
	// FindByBookId returns nil without error when the book has no
	// recorded position yet.
	FindByBookId(ctx context.Context, bookId uuid.UUID) (*entity.ReadingPosition, error)
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
}
