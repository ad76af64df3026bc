package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer stores one answer per (analysis, question). Value holds the encoded
// tagged union; ValueType names its variant.
type Answer struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID string `gorm:"type:uuid;not null;uniqueIndex:ux_tda_answer_analysis_question" json:"analysis_id" validate:"required"`
	QuestionID string `gorm:"type:uuid;not null;uniqueIndex:ux_tda_answer_analysis_question" json:"question_id" validate:"required"`
	Timeframe  string `gorm:"type:varchar(8);not null;index" json:"timeframe"`
	ValueType  string `gorm:"type:varchar(20);not null" json:"value_type" validate:"required"`

	Value datatypes.JSON `gorm:"not null" json:"value"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Answer) TableName() string {
	return "tda_answers"
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
