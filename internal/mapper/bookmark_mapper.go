package mapper

import (
	"book-companion-be/internal/entity"
	"book-companion-be/internal/model"
)

type BookmarkMapper struct{}

func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

func (m *BookmarkMapper) ToEntity(b *model.Bookmark) *entity.Bookmark {
	if b == nil {
		return nil
	}
	return &entity.Bookmark{
		Id:             b.Id,
		BookId:         b.BookId,
		ChapterIndex:   b.ChapterIndex,
		ChapterPercent: b.ChapterPercent,
		BookPercent:    b.BookPercent,
		Label:          b.Label,
		CreatedAt:      b.CreatedAt,
	}
}

func (m *BookmarkMapper) ToModel(b *entity.Bookmark) *model.Bookmark {
	if b == nil {
		return nil
	}
	return &model.Bookmark{
		Id:             b.Id,
		BookId:         b.BookId,
		ChapterIndex:   b.ChapterIndex,
		ChapterPercent: b.ChapterPercent,
		BookPercent:    b.BookPercent,
		Label:          b.Label,
		CreatedAt:      b.CreatedAt,
	}
}

func (m *BookmarkMapper) ToEntities(bs []*model.Bookmark) []*entity.Bookmark {
	entities := make([]*entity.Bookmark, len(bs))
	for i, b := range bs {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
