package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversationCitation struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	ChunkId        uuid.UUID `gorm:"type:uuid;not null"`
	DisplayIndex   int       `gorm:"not null"`
	ChapterIndex   int
	PositionIndex  int
	SpineHref      string    `gorm:"type:varchar(512)"`
	AnchorText     string    `gorm:"type:varchar(256)"`
	Snippet        string    `gorm:"type:varchar(512)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Conversation *Conversation `gorm:"foreignKey:ConversationId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ConversationCitation) TableName() string {
	return "conversation_citations"
}
