package contract

import (
	"context"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChapterRepository interface {
	CreateBulk(ctx context.Context, chapters []*entity.Chapter) error
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chapter, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
