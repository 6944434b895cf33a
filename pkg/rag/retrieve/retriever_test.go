package retrieve

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/contract"
	"book-companion-be/pkg/embedding"
	"book-companion-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	values []float32
	err    error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{Values: f.values}, nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*embedding.EmbeddingResponse, error) {
	out := make([]*embedding.EmbeddingResponse, len(texts))
	for i := range texts {
		res, err := f.Generate(ctx, texts[i], taskType)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

type fakeSearcher struct {
	gotChapter  int
	gotPosition int
	gotLimit    int
	results     []*contract.ScoredChunk
	err         error
}

func (f *fakeSearcher) SearchAdmissible(ctx context.Context, bookId uuid.UUID, emb []float32, chapterIndex, positionIndex, limit int) ([]*contract.ScoredChunk, error) {
	f.gotChapter = chapterIndex
	f.gotPosition = positionIndex
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRetrieveNilPosition(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{values: []float32{0.1}}, &fakeSearcher{}, testLogger())

	_, err := r.Retrieve(context.Background(), uuid.New(), nil, "who is the captain?", DefaultConfig())

	assert.ErrorIs(t, err, rag.ErrNoContentReadYet)
}

func TestRetrievePassesPositionToSearch(t *testing.T) {
	searcher := &fakeSearcher{
		results: []*contract.ScoredChunk{
			{Chunk: &entity.Chunk{Id: uuid.New(), ChapterIndex: 1, PositionIndex: 2}, Distance: 0.1},
		},
	}
	r := NewRetriever(&fakeEmbedder{values: []float32{0.1, 0.2}}, searcher, testLogger())

	position := &entity.ReadingPosition{ChapterIndex: 3, PositionIndex: 7}
	got, err := r.Retrieve(context.Background(), uuid.New(), position, "question", DefaultConfig())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, searcher.gotChapter)
	assert.Equal(t, 7, searcher.gotPosition)
	assert.Equal(t, 8, searcher.gotLimit)
}

func TestRetrieveDropsChunksPastPosition(t *testing.T) {
	ahead := uuid.New()
	searcher := &fakeSearcher{
		results: []*contract.ScoredChunk{
			{Chunk: &entity.Chunk{Id: uuid.New(), ChapterIndex: 2, PositionIndex: 4}, Distance: 0.1},
			{Chunk: &entity.Chunk{Id: ahead, ChapterIndex: 5, PositionIndex: 0}, Distance: 0.2},
		},
	}
	r := NewRetriever(&fakeEmbedder{values: []float32{0.1}}, searcher, testLogger())

	position := &entity.ReadingPosition{ChapterIndex: 3, PositionIndex: 7}
	got, err := r.Retrieve(context.Background(), uuid.New(), position, "question", DefaultConfig())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, ahead, got[0].Chunk.Id)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{err: errors.New("connection refused")}, &fakeSearcher{}, testLogger())

	_, err := r.Retrieve(context.Background(), uuid.New(), &entity.ReadingPosition{}, "q", DefaultConfig())

	assert.ErrorIs(t, err, rag.ErrRetrievalUnavailable)
}

func TestRetrieveSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("db down")}
	r := NewRetriever(&fakeEmbedder{values: []float32{0.5}}, searcher, testLogger())

	_, err := r.Retrieve(context.Background(), uuid.New(), &entity.ReadingPosition{ChapterIndex: 1}, "q", DefaultConfig())

	assert.ErrorIs(t, err, rag.ErrRetrievalUnavailable)
}

func TestRetrieveEmptyResultIsNotAnError(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{values: []float32{0.5}}, &fakeSearcher{}, testLogger())

	got, err := r.Retrieve(context.Background(), uuid.New(), &entity.ReadingPosition{}, "q", DefaultConfig())

	require.NoError(t, err)
	assert.Empty(t, got)
}
