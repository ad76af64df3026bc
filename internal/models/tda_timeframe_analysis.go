package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SentimentBullish = "BULLISH"
	SentimentBearish = "BEARISH"
	SentimentNeutral = "NEUTRAL"
)

// TimeframeAnalysis holds one per-timeframe verdict of an Analysis.
type TimeframeAnalysis struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	AnalysisID  string  `gorm:"type:uuid;not null;uniqueIndex:ux_tda_tf_analysis_timeframe" json:"analysis_id" validate:"required"`
	Timeframe   string  `gorm:"type:varchar(8);not null;uniqueIndex:ux_tda_tf_analysis_timeframe" json:"timeframe" validate:"required"`
	Sentiment   string  `gorm:"type:varchar(16);not null" json:"sentiment" validate:"oneof=BULLISH BEARISH NEUTRAL"`
	Probability float64 `json:"probability" validate:"gte=0,lte=100"`
	Strength    float64 `json:"strength" validate:"gte=0,lte=100"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`

	Data datatypes.JSON `json:"data,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TimeframeAnalysis) TableName() string {
	return "tda_timeframe_analyses"
}

func (t *TimeframeAnalysis) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
