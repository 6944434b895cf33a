package embedding

import "context"

// Task types hint the provider how the embedding will be used.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

type EmbeddingResponse struct {
	Values []float32
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
	// GenerateBatch embeds several texts in one call, preserving input order.
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error)
}
