package models

import (
	"time"

	"gorm.io/gorm"
)

type Screenshot struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID  string `gorm:"type:uuid;not null;index" json:"analysis_id" validate:"required"`
	Timeframe   string `gorm:"type:varchar(8);not null" json:"timeframe"`
	StoragePath string `gorm:"type:varchar(512);not null" json:"storage_path" validate:"required"`
	URL         string `gorm:"type:varchar(1024)" json:"url"`
	ContentType string `gorm:"type:varchar(80)" json:"content_type"`
	SizeBytes   int64  `gorm:"not null;default:0" json:"size_bytes"`
	Caption     string `gorm:"type:text" json:"caption,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Screenshot) TableName() string {
	return "tda_screenshots"
}

func (s *Screenshot) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
