package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalysisHistory struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID string         `gorm:"type:uuid;not null;index" json:"analysis_id"`
	UserID     string         `gorm:"type:uuid;not null" json:"user_id"`
	Action     string         `gorm:"type:varchar(32);not null" json:"action"`
	FromStatus string         `gorm:"type:varchar(16)" json:"from_status,omitempty"`
	ToStatus   string         `gorm:"type:varchar(16)" json:"to_status,omitempty"`
	Details    datatypes.JSON `json:"details,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AnalysisHistory) TableName() string {
	return "tda_analysis_history"
}

func (h *AnalysisHistory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
