package service

import (
	"context"
	"fmt"
	"time"

	"book-companion-be/internal/dto"
	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/specification"
	"book-companion-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBookmarkService interface {
	Create(ctx context.Context, bookId uuid.UUID, req *dto.CreateBookmarkRequest) (*dto.BookmarkItem, error)
	List(ctx context.Context, bookId uuid.UUID) ([]*dto.BookmarkItem, error)
	Delete(ctx context.Context, bookId, id uuid.UUID) error
}

type bookmarkService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewBookmarkService(uowFactory unitofwork.RepositoryFactory) IBookmarkService {
	return &bookmarkService{uowFactory: uowFactory}
}

func (s *bookmarkService) Create(ctx context.Context, bookId uuid.UUID, req *dto.CreateBookmarkRequest) (*dto.BookmarkItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: bookId})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %s: %w", bookId, ErrNotFound)
	}

	bookmark := entity.Bookmark{
		Id:             uuid.New(),
		BookId:         bookId,
		ChapterIndex:   req.ChapterIndex,
		ChapterPercent: req.ChapterPercent,
		BookPercent:    req.BookPercent,
		Label:          req.Label,
		CreatedAt:      time.Now(),
	}
	if err := uow.BookmarkRepository().Create(ctx, &bookmark); err != nil {
		return nil, err
	}

	return toBookmarkItem(&bookmark), nil
}

func (s *bookmarkService) List(ctx context.Context, bookId uuid.UUID) ([]*dto.BookmarkItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bookmarks, err := uow.BookmarkRepository().FindAll(ctx,
		specification.ByBookID{BookID: bookId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.BookmarkItem, len(bookmarks))
	for i, bookmark := range bookmarks {
		items[i] = toBookmarkItem(bookmark)
	}
	return items, nil
}

func (s *bookmarkService) Delete(ctx context.Context, bookId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bookmark, err := uow.BookmarkRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ByBookID{BookID: bookId})
	if err != nil {
		return err
	}
	if bookmark == nil {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}

	return uow.BookmarkRepository().Delete(ctx, id)
}

func toBookmarkItem(b *entity.Bookmark) *dto.BookmarkItem {
	return &dto.BookmarkItem{
		Id:             b.Id,
		ChapterIndex:   b.ChapterIndex,
		ChapterPercent: b.ChapterPercent,
		BookPercent:    b.BookPercent,
		Label:          b.Label,
		CreatedAt:      b.CreatedAt,
	}
}
