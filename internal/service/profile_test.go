package service

import (
	"context"
	"errors"
	"testing"

	"tradejournal/internal/models"
)

func TestProfileService_UpdatePreferences(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	if _, err := store.EnsureProfile(ctx, &models.Profile{ID: "u1", Email: "u1@example.com", DisplayName: "u1"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	svc := &ProfileService{Repo: store}

	p, err := svc.UpdatePreferences(ctx, "u1", Preferences{
		DisplayName:        strPtr("  Pip Hunter "),
		WeeklyReport:       boolPtrT(true),
		AnnouncementsOptIn: boolPtrT(true),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.DisplayName != "Pip Hunter" || !p.WeeklyReport || !p.AnnouncementsOptIn || p.MonthlyReport {
		t.Fatalf("profile=%+v", p)
	}

	p, err = svc.UpdatePreferences(ctx, "u1", Preferences{WeeklyReport: boolPtrT(false)})
	if err != nil || p.WeeklyReport || p.DisplayName != "Pip Hunter" {
		t.Fatalf("profile=%+v err=%v", p, err)
	}

	if _, err := svc.UpdatePreferences(ctx, "u1", Preferences{DisplayName: strPtr("   ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name err=%v want invalid", err)
	}
	if _, err := svc.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err=%v want not found", err)
	}
}

func TestMessageService_SearchUsers(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	for _, p := range []models.Profile{
		{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"},
		{ID: "u2", Email: "albert@example.com", DisplayName: "Albert"},
		{ID: "u3", Email: "bob@example.com", DisplayName: "Bob"},
	} {
		p := p
		if _, err := store.EnsureProfile(ctx, &p); err != nil {
			t.Fatalf("ensure %s: %v", p.ID, err)
		}
	}
	svc := &MessageService{Repo: store}

	hits, err := svc.SearchUsers(ctx, "u1", "a", 10)
	if err != nil || len(hits) != 0 {
		t.Fatalf("short query hits=%v err=%v", hits, err)
	}
	hits, err = svc.SearchUsers(ctx, "u1", "AL", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "u2" || hits[0].DisplayName != "Albert" {
		t.Fatalf("hits=%+v", hits)
	}
}
