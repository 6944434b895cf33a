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

type ConversationCitationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationCitationRepository(db *gorm.DB) contract.ConversationCitationRepository {
	return &ConversationCitationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationCitationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationCitationRepositoryImpl) CreateBulk(ctx context.Context, citations []*entity.ConversationCitation) error {
	if len(citations) == 0 {
		return nil
	}
	models := make([]*model.ConversationCitation, len(citations))
	for i, c := range citations {
		models[i] = r.mapper.CitationToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*citations[i] = *r.mapper.CitationToEntity(m)
	}
	return nil
}

func (r *ConversationCitationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationCitation, error) {
	var models []*model.ConversationCitation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("display_index ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationCitation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CitationToEntity(m)
	}
	return entities, nil
}

func (r *ConversationCitationRepositoryImpl) FindByConversationIds(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID][]*entity.ConversationCitation, error) {
	grouped := make(map[uuid.UUID][]*entity.ConversationCitation)
	if len(conversationIds) == 0 {
		return grouped, nil
	}

	var models []*model.ConversationCitation
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIds).
		Order("conversation_id, display_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		grouped[m.ConversationId] = append(grouped[m.ConversationId], r.mapper.CitationToEntity(m))
	}
	return grouped, nil
}

func (r *ConversationCitationRepositoryImpl) DeleteByBookId(ctx context.Context, bookId uuid.UUID) error {
	subQuery := r.db.Table("conversations").Select("id").Where("book_id = ?", bookId)
	return r.db.WithContext(ctx).Where("conversation_id IN (?)", subQuery).Delete(&model.ConversationCitation{}).Error
}
