package mapper

import (
	"book-companion-be/internal/entity"
	"book-companion-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation, citations []*model.ConversationCitation) *entity.Conversation {
	if c == nil {
		return nil
	}
	e := &entity.Conversation{
		Id:               c.Id,
		BookId:           c.BookId,
		SessionId:        c.SessionId,
		Question:         c.Question,
		Answer:           c.Answer,
		Model:            c.Model,
		AskChapterIndex:  c.AskChapterIndex,
		AskPositionIndex: c.AskPositionIndex,
		CreatedAt:        c.CreatedAt,
	}
	for _, cit := range citations {
		e.Citations = append(e.Citations, *m.CitationToEntity(cit))
	}
	return e
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
		Id:               c.Id,
		BookId:           c.BookId,
		SessionId:        c.SessionId,
		Question:         c.Question,
		Answer:           c.Answer,
		Model:            c.Model,
		AskChapterIndex:  c.AskChapterIndex,
		AskPositionIndex: c.AskPositionIndex,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *ConversationMapper) CitationToEntity(c *model.ConversationCitation) *entity.ConversationCitation {
	if c == nil {
		return nil
	}
	return &entity.ConversationCitation{
		Id:             c.Id,
		ConversationId: c.ConversationId,
		ChunkId:        c.ChunkId,
		DisplayIndex:   c.DisplayIndex,
		ChapterIndex:   c.ChapterIndex,
		PositionIndex:  c.PositionIndex,
		Location: entity.SourceLocation{
			SpineHref:  c.SpineHref,
			AnchorText: c.AnchorText,
		},
		Snippet:   c.Snippet,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ConversationMapper) CitationToModel(c *entity.ConversationCitation) *model.ConversationCitation {
	if c == nil {
		return nil
	}
	return &model.ConversationCitation{
		Id:             c.Id,
		ConversationId: c.ConversationId,
		ChunkId:        c.ChunkId,
		DisplayIndex:   c.DisplayIndex,
		ChapterIndex:   c.ChapterIndex,
		PositionIndex:  c.PositionIndex,
		SpineHref:      c.Location.SpineHref,
		AnchorText:     c.Location.AnchorText,
		Snippet:        c.Snippet,
		CreatedAt:      c.CreatedAt,
	}
}
