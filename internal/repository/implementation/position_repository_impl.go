package implementation

import (
	"context"
	"errors"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/model"
	"book-companion-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PositionRepositoryImpl struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) contract.PositionRepository {
	return &PositionRepositoryImpl{db: db}
}

func (r *PositionRepositoryImpl) Upsert(ctx context.Context, position *entity.ReadingPosition) error {
	m := &model.BookPosition{
		BookId:         position.BookId,
		ChapterIndex:   position.ChapterIndex,
		PositionIndex:  position.PositionIndex,
		ChapterPercent: position.ChapterPercent,
		BookPercent:    position.BookPercent,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"chapter_index", "position_index", "chapter_percent", "book_percent", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	position.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *PositionRepositoryImpl) FindByBookId(ctx context.Context, bookId uuid.UUID) (*entity.ReadingPosition, error) {
	var m model.BookPosition
	err := r.db.WithContext(ctx).Where("book_id = ?", bookId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.ReadingPosition{
		BookId:         m.BookId,
		ChapterIndex:   m.ChapterIndex,
		PositionIndex:  m.PositionIndex,
		ChapterPercent: m.ChapterPercent,
		BookPercent:    m.BookPercent,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func (r *PositionRepositoryImpl) DeleteByBookId(ctx context.Context, bookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookId).Delete(&model.BookPosition{}).Error
}
