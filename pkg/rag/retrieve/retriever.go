package retrieve

import (
	"context"
	"fmt"
	"log"
	"time"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/contract"
	"book-companion-be/pkg/embedding"
	"book-companion-be/pkg/rag"
	"book-companion-be/pkg/rag/gate"

	"github.com/google/uuid"
)

// Searcher is the vector search the retriever runs against. The chunk
// repository satisfies it; tests swap in a fake.
type Searcher interface {
	SearchAdmissible(ctx context.Context, bookId uuid.UUID, embedding []float32, chapterIndex, positionIndex, limit int) ([]*contract.ScoredChunk, error)
}

// Config encapsulates retrieval parameters
type Config struct {
	TopK         int
	EmbedTimeout time.Duration
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		TopK:         8,
		EmbedTimeout: 10 * time.Second,
	}
}

// Retriever embeds the question and runs the position-bounded vector
// search.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	searcher          Searcher
	logger            *log.Logger
}

// NewRetriever creates a new retriever
func NewRetriever(embeddingProvider embedding.EmbeddingProvider, searcher Searcher, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		searcher:          searcher,
		logger:            logger,
	}
}

// Retrieve returns candidates ranked by distance, all at or before the
// reader's position. A nil position means the reader has not started
// the book, which is a first-class state, not an error in the pipeline.
func (r *Retriever) Retrieve(ctx context.Context, bookId uuid.UUID, position *entity.ReadingPosition, query string, config Config) ([]*contract.ScoredChunk, error) {
	if position == nil {
		return nil, rag.ErrNoContentReadYet
	}

	embedCtx, cancel := context.WithTimeout(ctx, config.EmbedTimeout)
	defer cancel()

	embeddingRes, err := r.embeddingProvider.Generate(embedCtx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding generation failed: %v", rag.ErrRetrievalUnavailable, err)
	}

	scored, err := r.searcher.SearchAdmissible(ctx, bookId, embeddingRes.Values, position.ChapterIndex, position.PositionIndex, config.TopK)
	if err != nil {
		r.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, fmt.Errorf("%w: vector search failed: %v", rag.ErrRetrievalUnavailable, err)
	}

	// The search query already bounds results, but the gate is the
	// contract: nothing past the reader's position leaves this function.
	bound := gate.Position{Chapter: position.ChapterIndex, Index: position.PositionIndex}
	admitted := scored[:0]
	for _, candidate := range scored {
		if bound.Admits(candidate.Chunk.ChapterIndex, candidate.Chunk.PositionIndex) {
			admitted = append(admitted, candidate)
		} else {
			r.logger.Printf("[WARN] Dropping inadmissible chunk %s past position (%d,%d)", candidate.Chunk.Id, position.ChapterIndex, position.PositionIndex)
		}
	}

	r.logger.Printf("[DEBUG] Retrieved %d candidates at position (%d,%d)", len(admitted), position.ChapterIndex, position.PositionIndex)

	return admitted, nil
}
