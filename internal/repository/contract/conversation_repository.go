package contract

import (
	"context"

	"book-companion-be/internal/entity"
	"book-companion-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
}

type ConversationCitationRepository interface {
	CreateBulk(ctx context.Context, citations []*entity.ConversationCitation) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationCitation, error)
	// FindByConversationIds loads citations for a page of turns in one
	// query, grouped by conversation, ordered by display index.
	FindByConversationIds(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID][]*entity.ConversationCitation, error)
	DeleteByBookId(ctx context.Context, bookId uuid.UUID) error
}
