package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleModel = "model"

	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// ChatMessage is one entry in a user's append-only conversation log.
// Rows are immutable after insert; the only mutation is a bulk delete of a
// whole user's history.
type ChatMessage struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:varchar(255);not null;index"`
	Role        string    `json:"role" gorm:"type:varchar(50);not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(20);not null;default:'text'"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
