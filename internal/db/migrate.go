package db

import (
	"tradejournal/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Profile{},
		&models.Trade{},
		// TDA aggregate
		&models.Analysis{},
		&models.TimeframeAnalysis{},
		&models.Question{},
		&models.Answer{},
		&models.Screenshot{},
		&models.Announcement{},
		&models.AnalysisHistory{},
		&models.Message{},
	)
}
