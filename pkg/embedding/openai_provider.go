package embedding

import (
	"context"
	"fmt"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

// OpenAIProvider implements EmbeddingProvider using the OpenAI
// embeddings API. text-embedding-3-small returns 1536 dimensions,
// matching the chunks table's vector column.
type OpenAIProvider struct {
	client openaiclient.Client
	model  string
}

func NewOpenAIProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIProvider{
		client: openaiclient.NewClient(
			openaioption.WithAPIKey(apiKey),
			openaioption.WithMaxRetries(0),
		),
		model: model,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	res, err := p.GenerateBatch(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (p *OpenAIProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error) {
	// The OpenAI embedding models are symmetric; taskType is kept for
	// interface compatibility.
	_ = taskType

	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.Embeddings.New(ctx, openaiclient.EmbeddingNewParams{
		Model: openaiclient.EmbeddingModel(p.model),
		Input: openaiclient.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embedding returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	out := make([]*EmbeddingResponse, len(resp.Data))
	for i, d := range resp.Data {
		values := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			values[j] = float32(v)
		}
		out[i] = &EmbeddingResponse{Values: values}
	}
	return out, nil
}
