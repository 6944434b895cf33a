package implementation

import (
	"context"
	"errors"
	"time"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/mapper"
	"book-companion-be/internal/model"
	"book-companion-be/internal/repository/contract"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewBookRepository(db *gorm.DB) contract.BookRepository {
	return &BookRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookMapper(),
	}
}

func (r *BookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookRepositoryImpl) Create(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookRepositoryImpl) Update(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Book{}, id).Error
}

func (r *BookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	var m model.Book
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	var models []*model.Book
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Book, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Book{}).Count(&count).Error
	return count, err
}

func (r *BookRepositoryImpl) UpdateEmbeddingStatus(ctx context.Context, id uuid.UUID, status entity.EmbeddingStatus, totalChunks int) error {
	now := time.Now()
	updates := map[string]interface{}{
		"embedding_status": string(status),
		"updated_at":       &now,
	}
	if status == entity.EmbeddingStatusReady {
		updates["total_chunks"] = totalChunks
	}
	return r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id).
		Updates(updates).Error
}
