package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AnalysisStatusDraft     = "DRAFT"
	AnalysisStatusCompleted = "COMPLETED"
	AnalysisStatusArchived  = "ARCHIVED"

	RiskLevelLow    = "LOW"
	RiskLevelMedium = "MEDIUM"
	RiskLevelHigh   = "HIGH"
)

type Analysis struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id" validate:"required"`
	CurrencyPair string `gorm:"type:varchar(20);not null;index" json:"currency_pair" validate:"required"`
	Status       string `gorm:"type:varchar(16);not null;index" json:"status" validate:"oneof=DRAFT COMPLETED ARCHIVED"`

	OverallProbability  float64 `json:"overall_probability" validate:"gte=0,lte=100"`
	ConfidenceLevel     float64 `json:"confidence_level" validate:"gte=0,lte=100"`
	TradeRecommendation string  `gorm:"type:varchar(16)" json:"trade_recommendation,omitempty" validate:"omitempty,oneof=LONG SHORT NEUTRAL AVOID"`
	RiskLevel           string  `gorm:"type:varchar(16)" json:"risk_level,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Summary             string  `gorm:"type:text" json:"summary,omitempty"`
	Reasoning           string  `gorm:"type:text" json:"reasoning,omitempty"`

	AnalysisData datatypes.JSON `json:"analysis_data,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "tda_analyses"
}

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
