package implementation

import (
	"context"
	"errors"
	"strings"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/mapper"
	"book-companion-be/internal/model"
	"book-companion-be/internal/repository/contract"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *ChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	// Large books overflow a single INSERT's parameter limit, so write
	// in batches.
	if err := r.db.WithContext(ctx).CreateInBatches(models, 200).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChunkRepositoryImpl) DeleteByBookId(ctx context.Context, bookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookId).Delete(&model.Chunk{}).Error
}

func (r *ChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error) {
	var m model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Chunk{}).Count(&count).Error
	return count, err
}

func (r *ChunkRepositoryImpl) GetOrderedChunks(ctx context.Context, bookId uuid.UUID) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookId).
		Order("chapter_index ASC, position_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchAdmissible is the position-bounded vector search. The position
// filter sits in the WHERE clause so no chunk past the reader's
// position can ever enter the candidate set, regardless of similarity.
func (r *ChunkRepositoryImpl) SearchAdmissible(ctx context.Context, bookId uuid.UUID, embedding []float32, chapterIndex, positionIndex, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 8
	}

	type result struct {
		model.Chunk
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// Equal distances resolve toward the latest admissible position so
	// the most recent mention of a recurring name wins.
	err := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.*, (embedding_value <=> ?) as distance", queryVector).
		Where("book_id = ?", bookId).
		Where("(chapter_index < ? OR (chapter_index = ? AND position_index <= ?))",
			chapterIndex, chapterIndex, positionIndex).
		Order("distance ASC, chapter_index DESC, position_index DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:    r.mapper.ToEntity(&res.Chunk),
			Distance: res.Distance,
		}
	}
	return scored, nil
}

// SearchText is the position-bounded substring scan behind in-book
// search. The same admissibility tuple as the vector search keeps
// unread text out of the candidate set.
func (r *ChunkRepositoryImpl) SearchText(ctx context.Context, bookId uuid.UUID, query string, chapterIndex, positionIndex, limit int) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookId).
		Where("(chapter_index < ? OR (chapter_index = ? AND position_index <= ?))",
			chapterIndex, chapterIndex, positionIndex).
		Where("text ILIKE ?", "%"+escapeLikePattern(query)+"%").
		Order("chapter_index ASC, position_index ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// escapeLikePattern neutralizes LIKE metacharacters so the query text
// is matched literally.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
