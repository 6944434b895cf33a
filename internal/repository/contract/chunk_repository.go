package contract

import (
	"context"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk wraps a Chunk with its cosine distance to the query
// vector (0.0 = identical, 2.0 = opposite).
type ScoredChunk struct {
	Chunk    *entity.Chunk
	Distance float64
}

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// GetOrderedChunks returns the book's chunks in reading order
	// (chapter_index, position_index ascending).
	GetOrderedChunks(ctx context.Context, bookId uuid.UUID) ([]*entity.Chunk, error)
	// SearchAdmissible runs a vector search restricted to chunks at or
	// before the reader's position. Admissibility is part of the query
	// itself, never post-filtered. Results order by distance ascending
	// with later positions winning exact ties.
	SearchAdmissible(ctx context.Context, bookId uuid.UUID, embedding []float32, chapterIndex, positionIndex, limit int) ([]*ScoredChunk, error)
	// SearchText runs a case-insensitive substring scan under the same
	// position bound, in reading order. limit caps scanned chunks, not
	// matches; occurrence extraction happens in the service.
	SearchText(ctx context.Context, bookId uuid.UUID, query string, chapterIndex, positionIndex, limit int) ([]*entity.Chunk, error)
}
