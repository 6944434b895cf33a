package implementation

import (
	"context"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/mapper"
	"book-companion-be/internal/model"
	"book-companion-be/internal/repository/contract"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewChapterRepository(db *gorm.DB) contract.ChapterRepository {
	return &ChapterRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookMapper(),
	}
}

func (r *ChapterRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChapterRepositoryImpl) CreateBulk(ctx context.Context, chapters []*entity.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	models := make([]*model.Chapter, len(chapters))
	for i, c := range chapters {
		models[i] = r.mapper.ChapterToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chapters[i] = *r.mapper.ChapterToEntity(m)
	}
	return nil
}

func (r *ChapterRepositoryImpl) DeleteByBookId(ctx context.Context, bookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookId).Delete(&model.Chapter{}).Error
}

func (r *ChapterRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chapter, error) {
	var models []*model.Chapter
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("chapter_index ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Chapter, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChapterToEntity(m)
	}
	return entities, nil
}

func (r *ChapterRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Chapter{}).Count(&count).Error
	return count, err
}
