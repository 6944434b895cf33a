package mapper

import (
	"book-companion-be/internal/entity"
	"book-companion-be/internal/model"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}
	return &entity.Book{
		Id:              b.Id,
		Title:           b.Title,
		Author:          b.Author,
		TotalChunks:     b.TotalChunks,
		EmbeddingStatus: entity.EmbeddingStatus(b.EmbeddingStatus),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (m *BookMapper) ToModel(b *entity.Book) *model.Book {
	if b == nil {
		return nil
	}
	return &model.Book{
		Id:              b.Id,
		Title:           b.Title,
		Author:          b.Author,
		TotalChunks:     b.TotalChunks,
		EmbeddingStatus: string(b.EmbeddingStatus),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (m *BookMapper) ToEntities(books []*model.Book) []*entity.Book {
	entities := make([]*entity.Book, len(books))
	for i, b := range books {
		entities[i] = m.ToEntity(b)
	}
	return entities
}

func (m *BookMapper) ChapterToEntity(c *model.Chapter) *entity.Chapter {
	if c == nil {
		return nil
	}
	return &entity.Chapter{
		Id:            c.Id,
		BookId:        c.BookId,
		ChapterIndex:  c.ChapterIndex,
		Title:         c.Title,
		SpineHref:     c.SpineHref,
		StartPosition: c.StartPosition,
		EndPosition:   c.EndPosition,
	}
}

func (m *BookMapper) ChapterToModel(c *entity.Chapter) *model.Chapter {
	if c == nil {
		return nil
	}
	return &model.Chapter{
		Id:            c.Id,
		BookId:        c.BookId,
		ChapterIndex:  c.ChapterIndex,
		Title:         c.Title,
		SpineHref:     c.SpineHref,
		StartPosition: c.StartPosition,
		EndPosition:   c.EndPosition,
	}
}
