package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tradejournal/internal/email"
	"tradejournal/internal/metrics"
	"tradejournal/internal/models"
	"tradejournal/internal/report"
)

const defaultBatchSize = 50

type AnnouncementRepository interface {
	ListProfilesByFlag(ctx context.Context, column string) ([]models.Profile, error)
}

type AnnouncementService struct {
	Repo           AnnouncementRepository
	Mailer         Mailer
	Sanitizer      *report.Sanitizer
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	BatchSize      int
	PreferencesURL string
}

type BroadcastResult struct {
	SentCount   int      `json:"sentCount"`
	FailedCount int      `json:"failedCount"`
	Batches     []int    `json:"batches"`
	Errors      []string `json:"errors"`
}

// Broadcast mails every announcement subscriber. Recipients are processed in
// fixed chunks; sends inside a chunk run concurrently and chunks run one after
// another.
func (s *AnnouncementService) Broadcast(ctx context.Context, subject, body string) (*BroadcastResult, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" || strings.TrimSpace(body) == "" {
		return nil, invalid("subject and body are required")
	}
	users, err := s.Repo.ListProfilesByFlag(ctx, "announcements_opt_in")
	if err != nil {
		return nil, err
	}
	html, err := s.Sanitizer.RenderAnnouncement(subject, body, s.PreferencesURL)
	if err != nil {
		return nil, err
	}
	size := s.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}

	res := &BroadcastResult{Batches: []int{}, Errors: []string{}}
	var mu sync.Mutex
	for start := 0; start < len(users); start += size {
		chunk := users[start:min(start+size, len(users))]
		res.Batches = append(res.Batches, len(chunk))
		var g errgroup.Group
		for _, u := range chunk {
			g.Go(func() error {
				_, err := s.Mailer.Send(ctx, email.Message{To: []string{u.Email}, Subject: subject, HTML: html})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					res.FailedCount++
					res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", u.Email, err))
					s.Metrics.EmailFailed("announcement")
					return nil
				}
				res.SentCount++
				s.Metrics.EmailSent("announcement")
				return nil
			})
		}
		_ = g.Wait()
	}
	if s.Logger != nil {
		s.Logger.Info("announcement broadcast",
			zap.Int("recipients", len(users)),
			zap.Int("sent", res.SentCount),
			zap.Int("failed", res.FailedCount),
			zap.Ints("batches", res.Batches))
	}
	return res, nil
}
