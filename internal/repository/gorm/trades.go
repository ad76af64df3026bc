package gormrepository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func (s *Store) InsertTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetTrade(ctx context.Context, userID, id string) (*models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Trade
	ok, err := first(s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

// SaveTrade writes every mutable column of item, scoped to its owner.
func (s *Store) SaveTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteTrade(ctx context.Context, userID, id string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Trade{})
	return res.RowsAffected, res.Error
}

func (s *Store) tradeQuery(ctx context.Context, params repository.ListTradesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Trade{}).Where("user_id = ?", params.UserID)
	if params.From != nil && !params.From.IsZero() {
		query = query.Where("trade_date >= ?", params.From.UTC())
	}
	if params.To != nil && !params.To.IsZero() {
		query = query.Where("trade_date < ?", params.To.UTC())
	}
	if v, ok := trimmed(params.Status); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := trimmed(params.CurrencyPair); ok {
		query = query.Where("currency_pair = ?", v)
	}
	return query
}

func (s *Store) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.tradeQuery(ctx, params), params.OrderBy, params.Asc, "trade_date")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Trade
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.tradeQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListAllTrades returns the owner's full trade set inside [from, to), unpaginated.
func (s *Store) ListAllTrades(ctx context.Context, userID string, from, to *time.Time) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.tradeQuery(ctx, repository.ListTradesParams{UserID: userID, From: from, To: to})
	var items []models.Trade
	if err := query.Order("trade_date asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
