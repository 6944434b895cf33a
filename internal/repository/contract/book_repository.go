package contract

import (
	"context"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateEmbeddingStatus flips the ingest lifecycle state. The
	// ready flip also records the final chunk count in the same write.
	UpdateEmbeddingStatus(ctx context.Context, id uuid.UUID, status entity.EmbeddingStatus, totalChunks int) error
}
