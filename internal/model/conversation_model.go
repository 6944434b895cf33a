package model

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookId           uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_book_session,priority:1"`
	SessionId        uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_book_session,priority:2"`
	Question         string    `gorm:"type:text;not null"`
	Answer           string    `gorm:"type:text;not null"`
	Model            string    `gorm:"type:varchar(128)"`
	AskChapterIndex  int
	AskPositionIndex int
	CreatedAt        time.Time `gorm:"autoCreateTime;index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
