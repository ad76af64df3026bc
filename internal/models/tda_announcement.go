package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement is an economic event noted against one timeframe of an analysis.
type Announcement struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID  string     `gorm:"type:uuid;not null;index" json:"analysis_id" validate:"required"`
	Timeframe   string     `gorm:"type:varchar(8);not null" json:"timeframe"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Currency    string     `gorm:"type:varchar(8)" json:"currency,omitempty"`
	Impact      string     `gorm:"type:varchar(16)" json:"impact,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Announcement) TableName() string {
	return "tda_announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
