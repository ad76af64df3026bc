package gormrepository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var profileFlagColumns = map[string]struct{}{
	"weekly_report":        {},
	"monthly_report":       {},
	"quarterly_report":     {},
	"yearly_report":        {},
	"announcements_opt_in": {},
}

func (s *Store) EnsureProfile(ctx context.Context, item *models.Profile) (*models.Profile, error) {
	if s == nil || s.db == nil || item == nil {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(item).Error; err != nil {
		return nil, err
	}
	existing, err := s.GetProfile(ctx, item.ID)
	if err != nil || existing == nil {
		return existing, err
	}
	// Backfill the email the first time the token carries one.
	if existing.Email == "" && item.Email != "" {
		if err := s.UpdateProfile(ctx, existing.ID, map[string]any{"email": item.Email}); err != nil {
			return nil, err
		}
		existing.Email = item.Email
	}
	return existing, nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Profile
	ok, err := first(s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListProfilesByFlag returns profiles with the given preference enabled and a
// deliverable email address.
func (s *Store) ListProfilesByFlag(ctx context.Context, column string) ([]models.Profile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if _, ok := profileFlagColumns[column]; !ok {
		return nil, fmt.Errorf("unknown profile flag %q", column)
	}
	var items []models.Profile
	if err := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where(column+" = ?", true).
		Where("email IS NOT NULL AND email <> ''").
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SearchProfiles(ctx context.Context, params repository.SearchProfilesParams) ([]models.Profile, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	q := strings.ToLower(strings.TrimSpace(params.Query))
	if q == "" {
		return []models.Profile{}, nil
	}
	like := q + "%"
	query := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	if params.ExcludeID != "" {
		query = query.Where("id <> ?", params.ExcludeID)
	}
	var items []models.Profile
	if err := query.Order("display_name asc").Limit(normalizeLimit(params.Limit, 20)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
