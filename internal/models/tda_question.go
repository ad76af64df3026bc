package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypeText          = "TEXT"
	QuestionTypeChoice        = "MULTIPLE_CHOICE"
	QuestionTypeRating        = "RATING"
	QuestionTypeBoolean       = "BOOLEAN"
	QuestionTypeAnnouncements = "ANNOUNCEMENTS"
)

// Question is an admin-managed prompt shown for a timeframe. Edits create a
// new version row; old versions are deactivated, never removed.
type Question struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Timeframe   string         `gorm:"type:varchar(8);not null;index" json:"timeframe" validate:"required"`
	Text        string         `gorm:"type:text;not null" json:"text" validate:"required"`
	Type        string         `gorm:"type:varchar(20);not null" json:"type" validate:"oneof=TEXT MULTIPLE_CHOICE RATING BOOLEAN ANNOUNCEMENTS"`
	Options     datatypes.JSON `json:"options,omitempty"`
	Directional bool           `gorm:"not null;default:false" json:"directional"`
	Required    bool           `gorm:"not null;default:false" json:"required"`
	OrderIndex  int            `gorm:"not null;default:0" json:"order_index"`
	Version     int            `gorm:"not null;default:1" json:"version" validate:"gte=1"`
	ParentID    *string        `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Question) TableName() string {
	return "tda_questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}
