package service

import (
	"context"
	"strings"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type ProfileService struct {
	Repo repository.ProfileRepository
}

type Preferences struct {
	DisplayName        *string `json:"display_name"`
	WeeklyReport       *bool   `json:"weekly_report"`
	MonthlyReport      *bool   `json:"monthly_report"`
	QuarterlyReport    *bool   `json:"quarterly_report"`
	YearlyReport       *bool   `json:"yearly_report"`
	AnnouncementsOptIn *bool   `json:"announcements_opt_in"`
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.Repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("profile")
	}
	if err := checkRow(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) UpdatePreferences(ctx context.Context, userID string, in Preferences) (*models.Profile, error) {
	updates := map[string]any{}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" || len(name) > 120 {
			return nil, invalid("display_name must be 1-120 characters")
		}
		updates["display_name"] = name
	}
	flags := map[string]*bool{
		"weekly_report":        in.WeeklyReport,
		"monthly_report":       in.MonthlyReport,
		"quarterly_report":     in.QuarterlyReport,
		"yearly_report":        in.YearlyReport,
		"announcements_opt_in": in.AnnouncementsOptIn,
	}
	for col, v := range flags {
		if v != nil {
			updates[col] = *v
		}
	}
	if len(updates) > 0 {
		if err := s.Repo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID)
}
