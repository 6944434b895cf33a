package contract

import (
	"context"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.Bookmark) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bookmark, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error)
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
}
