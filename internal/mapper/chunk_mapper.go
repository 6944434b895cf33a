package mapper

import (
	"book-companion-be/internal/entity"
	"book-companion-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.Chunk) *entity.Chunk {
	if c == nil {
		return nil
	}
	return &entity.Chunk{
		Id:             c.Id,
		BookId:         c.BookId,
		ChapterIndex:   c.ChapterIndex,
		ChapterTitle:   c.ChapterTitle,
		PositionIndex:  c.PositionIndex,
		Text:           c.Text,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		Location: entity.SourceLocation{
			SpineHref:  c.SpineHref,
			AnchorText: c.AnchorText,
		},
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChunkMapper) ToModel(c *entity.Chunk) *model.Chunk {
	if c == nil {
		return nil
	}
	return &model.Chunk{
		Id:             c.Id,
		BookId:         c.BookId,
		ChapterIndex:   c.ChapterIndex,
		ChapterTitle:   c.ChapterTitle,
		PositionIndex:  c.PositionIndex,
		Text:           c.Text,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		SpineHref:      c.Location.SpineHref,
		AnchorText:     c.Location.AnchorText,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
