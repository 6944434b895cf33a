package implementation

import (
	"context"
	"errors"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/mapper"
	"book-companion-be/internal/model"
	"book-companion-be/internal/repository/contract"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookmarkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookmarkMapper
}

func NewBookmarkRepository(db *gorm.DB) contract.BookmarkRepository {
	return &BookmarkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookmarkMapper(),
	}
}

func (r *BookmarkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookmarkRepositoryImpl) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	m := r.mapper.ToModel(bookmark)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*bookmark = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookmarkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Bookmark{}, id).Error
}

func (r *BookmarkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bookmark, error) {
	var m model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookmarkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error) {
	var models []*model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookmarkRepositoryImpl) DeleteByBookId(ctx context.Context, bookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookId).Delete(&model.Bookmark{}).Error
}
