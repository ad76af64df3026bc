package gormrepository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func (s *Store) InsertAnalysis(ctx context.Context, item *models.Analysis, history *models.AnalysisHistory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if history == nil {
			return nil
		}
		history.AnalysisID = item.ID
		return tx.Create(history).Error
	})
}

func (s *Store) GetAnalysis(ctx context.Context, userID, id string) (*models.Analysis, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Analysis
	ok, err := first(s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (s *Store) analysisQuery(ctx context.Context, params repository.ListAnalysesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Analysis{}).Where("user_id = ?", params.UserID)
	if v, ok := trimmed(params.Status); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := trimmed(params.CurrencyPair); ok {
		query = query.Where("currency_pair = ?", v)
	}
	return query
}

func (s *Store) ListAnalyses(ctx context.Context, params repository.ListAnalysesParams) ([]models.Analysis, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.analysisQuery(ctx, params), params.OrderBy, params.Asc, "created_at")
	var items []models.Analysis
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAnalyses(ctx context.Context, params repository.ListAnalysesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.analysisQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) SaveAnalysis(ctx context.Context, item *models.Analysis, fromStatus string, history *models.AnalysisHistory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Analysis{}).
			Where("id = ? AND user_id = ? AND status = ?", item.ID, item.UserID, fromStatus).
			Select("*").
			Omit("id", "user_id", "created_at").
			Updates(item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrStale
		}
		if history == nil {
			return nil
		}
		history.AnalysisID = item.ID
		return tx.Create(history).Error
	})
}

func (s *Store) ListAnalysisHistory(ctx context.Context, analysisID string) ([]models.AnalysisHistory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.AnalysisHistory
	if err := s.db.WithContext(ctx).
		Where("analysis_id = ?", analysisID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertTimeframeAnalysis(ctx context.Context, item *models.TimeframeAnalysis) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "analysis_id"}, {Name: "timeframe"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sentiment",
			"probability",
			"strength",
			"notes",
			"data",
			"updated_at",
		}),
	}).Create(item).Error
	if err != nil {
		return err
	}
	// On conflict the surviving row keeps its id; reload it over the one
	// BeforeCreate generated.
	var stored models.TimeframeAnalysis
	if err := db.Where("analysis_id = ? AND timeframe = ?", item.AnalysisID, item.Timeframe).Take(&stored).Error; err != nil {
		return err
	}
	*item = stored
	return nil
}

func (s *Store) ListTimeframeAnalyses(ctx context.Context, analysisID string) ([]models.TimeframeAnalysis, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TimeframeAnalysis
	if err := s.db.WithContext(ctx).
		Where("analysis_id = ?", analysisID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTimeframeAnalyses(ctx context.Context, analysisID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.TimeframeAnalysis{}).
		Where("analysis_id = ?", analysisID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) UpsertAnswers(ctx context.Context, items []models.Answer) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "analysis_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"timeframe", "value_type", "value", "updated_at"}),
	}).Create(&items).Error
}

func (s *Store) ListAnswers(ctx context.Context, analysisID string, timeframe *string) ([]models.Answer, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Where("analysis_id = ?", analysisID)
	if v, ok := trimmed(timeframe); ok {
		query = query.Where("timeframe = ?", v)
	}
	var items []models.Answer
	if err := query.Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertScreenshot(ctx context.Context, item *models.Screenshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetScreenshot(ctx context.Context, analysisID, id string) (*models.Screenshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Screenshot
	ok, err := first(s.db.WithContext(ctx).Where("id = ? AND analysis_id = ?", id, analysisID), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListScreenshots(ctx context.Context, analysisID string) ([]models.Screenshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Screenshot
	if err := s.db.WithContext(ctx).
		Where("analysis_id = ?", analysisID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteScreenshot(ctx context.Context, analysisID, id string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id = ? AND analysis_id = ?", id, analysisID).Delete(&models.Screenshot{})
	return res.RowsAffected, res.Error
}

func (s *Store) InsertAnnouncement(ctx context.Context, item *models.Announcement) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAnnouncements(ctx context.Context, analysisID string) ([]models.Announcement, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Announcement
	if err := s.db.WithContext(ctx).
		Where("analysis_id = ?", analysisID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteAnnouncement(ctx context.Context, analysisID, id string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id = ? AND analysis_id = ?", id, analysisID).Delete(&models.Announcement{})
	return res.RowsAffected, res.Error
}

func (s *Store) deleteByAnalysis(ctx context.Context, analysisID string, model any) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("analysis_id = ?", analysisID).Delete(model)
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteScreenshotsByAnalysis(ctx context.Context, analysisID string) (int64, error) {
	return s.deleteByAnalysis(ctx, analysisID, &models.Screenshot{})
}

func (s *Store) DeleteAnnouncementsByAnalysis(ctx context.Context, analysisID string) (int64, error) {
	return s.deleteByAnalysis(ctx, analysisID, &models.Announcement{})
}

func (s *Store) DeleteAnswersByAnalysis(ctx context.Context, analysisID string) (int64, error) {
	return s.deleteByAnalysis(ctx, analysisID, &models.Answer{})
}

func (s *Store) DeleteTimeframeAnalysesByAnalysis(ctx context.Context, analysisID string) (int64, error) {
	return s.deleteByAnalysis(ctx, analysisID, &models.TimeframeAnalysis{})
}

func (s *Store) DeleteHistoryByAnalysis(ctx context.Context, analysisID string) (int64, error) {
	return s.deleteByAnalysis(ctx, analysisID, &models.AnalysisHistory{})
}

func (s *Store) DeleteAnalysis(ctx context.Context, userID, id string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Analysis{})
	return res.RowsAffected, res.Error
}
