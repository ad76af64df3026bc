package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tradejournal/internal/repository"
)

var _ repository.Repository = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("store not configured")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// first loads a single row into dest; a missing row yields (false, nil).
func first(query *gorm.DB, dest any) (bool, error) {
	err := query.Take(dest).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// sortable lists the columns a caller may order by; anything else falls back.
var sortable = map[string]struct{}{
	"trade_date":    {},
	"created_at":    {},
	"updated_at":    {},
	"currency_pair": {},
	"profit_loss":   {},
	"pips":          {},
}

// applyOrder sorts newest first unless asc is set. The id tiebreak keeps
// offset pages stable when sort keys collide.
func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.ToLower(strings.TrimSpace(orderBy))
	if _, ok := sortable[column]; !ok {
		column = fallback
	}
	direction := " desc"
	if asc != nil && *asc {
		direction = " asc"
	}
	return query.Order(column + direction).Order("id" + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// uniqueIDs drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	out := ids[:0:0]
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func trimmed(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.TrimSpace(*p)
	return v, v != ""
}
