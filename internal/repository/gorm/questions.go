package gormrepository

import (
	"context"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func (s *Store) ListQuestions(ctx context.Context, params repository.ListQuestionsParams) ([]models.Question, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Question{})
	if !params.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if v, ok := trimmed(params.Timeframe); ok {
		query = query.Where("timeframe = ?", v)
	}
	var items []models.Question
	if err := query.Order("timeframe asc").Order("order_index asc").Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Question
	ok, err := first(s.db.WithContext(ctx).Where("id = ?", id), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Question{}, nil
	}
	var items []models.Question
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertQuestion(ctx context.Context, item *models.Question) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ReplaceQuestion(ctx context.Context, previousID string, next *models.Question) error {
	if s == nil || s.db == nil || next == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).
			Where("id = ? AND active = ?", previousID, true).
			Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(next).Error
	})
}

func (s *Store) DeactivateQuestion(ctx context.Context, id string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}
