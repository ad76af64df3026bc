package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two users. Deleted rows are soft-deleted.
type Message struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   string `gorm:"type:uuid;not null;index" json:"sender_id" validate:"required"`
	ReceiverID string `gorm:"type:uuid;not null;index:idx_messages_receiver_read" json:"receiver_id" validate:"required"`
	Content    string `gorm:"type:text;not null" json:"content"`

	IsRead bool       `gorm:"not null;default:false;index:idx_messages_receiver_read" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
