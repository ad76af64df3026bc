package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tradejournal/internal/email"
	"tradejournal/internal/metrics"
	"tradejournal/internal/models"
	"tradejournal/internal/report"
)

type ReportRepository interface {
	ListProfilesByFlag(ctx context.Context, column string) ([]models.Profile, error)
	ListAllTrades(ctx context.Context, userID string, from, to *time.Time) ([]models.Trade, error)
}

type ReportService struct {
	Repo             ReportRepository
	Mailer           Mailer
	Sanitizer        *report.Sanitizer
	Metrics          *metrics.Metrics
	Logger           *zap.Logger
	Location         *time.Location
	PreferencesURL   string
	WorkbookPassword string
}

// ReportRun is the outcome of one scheduled run.
type ReportRun struct {
	Period    report.Period `json:"period"`
	Triggered bool          `json:"triggered"`
	Eligible  int           `json:"eligible"`
	Sent      int           `json:"sent"`
	Skipped   int           `json:"skipped"`
	Errors    []string      `json:"errors"`
}

func (s *ReportService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s *ReportService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// RunScheduledReports sends period reports to every opted-in user when now is
// the period's trigger day in the reporting zone. On any other day it returns
// without touching the store or the mailer. One user's failure never stops
// the others.
func (s *ReportService) RunScheduledReports(ctx context.Context, period report.Period, now time.Time) (*ReportRun, error) {
	run := &ReportRun{Period: period, Errors: []string{}}
	local := now.In(s.location())
	if !report.IsTriggerDay(period, local) {
		s.Metrics.ReportRun(string(period), "not_trigger_day")
		return run, nil
	}
	run.Triggered = true
	log := s.logger().With(zap.String("period", string(period)))

	users, err := s.Repo.ListProfilesByFlag(ctx, period.FlagColumn())
	if err != nil {
		return nil, err
	}
	run.Eligible = len(users)
	start, end := report.PreviousWindow(period, local)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			run.Errors = append(run.Errors, err.Error())
			break
		}
		sent, err := s.sendReport(ctx, u.ID, u.Email, period, start, end)
		switch {
		case err != nil:
			run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", u.ID, err))
			log.Warn("report send failed", zap.String("user_id", u.ID), zap.Error(err))
		case sent:
			run.Sent++
		default:
			run.Skipped++
		}
	}
	outcome := "ok"
	if len(run.Errors) > 0 {
		outcome = "partial"
	}
	s.Metrics.ReportRun(string(period), outcome)
	log.Info("scheduled reports done",
		zap.Int("eligible", run.Eligible),
		zap.Int("sent", run.Sent),
		zap.Int("skipped", run.Skipped),
		zap.Int("errors", len(run.Errors)))
	return run, nil
}

// SendMyReport sends the caller the last complete period right away.
func (s *ReportService) SendMyReport(ctx context.Context, userID, to string, period report.Period, now time.Time) (string, error) {
	if to == "" {
		return "", invalid("no email address on this account")
	}
	start, end := report.PreviousWindow(period, now.In(s.location()))
	msg, err := s.composeReport(ctx, userID, to, period, start, end)
	if err != nil {
		return "", err
	}
	id, err := s.Mailer.Send(ctx, msg)
	if err != nil {
		s.Metrics.EmailFailed("report")
		return "", err
	}
	s.Metrics.EmailSent("report")
	return id, nil
}

// ExportTrades renders the caller's spreadsheet for the last complete period.
func (s *ReportService) ExportTrades(ctx context.Context, userID string, period report.Period, now time.Time) (string, []byte, error) {
	start, end := report.PreviousWindow(period, now.In(s.location()))
	trades, err := s.Repo.ListAllTrades(ctx, userID, &start, &end)
	if err != nil {
		return "", nil, err
	}
	content, err := report.BuildWorkbook(report.WorkbookInput{
		Title:    period.Title() + " trading report",
		Start:    start,
		End:      end,
		Trades:   trades,
		Summary:  report.Summarize(trades),
		Password: s.WorkbookPassword,
	})
	if err != nil {
		return "", nil, err
	}
	return workbookName(period, start), content, nil
}

// sendReport reports sent=false when the user had no address.
func (s *ReportService) sendReport(ctx context.Context, userID, to string, period report.Period, start, end time.Time) (bool, error) {
	if to == "" {
		return false, nil
	}
	msg, err := s.composeReport(ctx, userID, to, period, start, end)
	if err != nil {
		return false, err
	}
	if _, err := s.Mailer.Send(ctx, msg); err != nil {
		s.Metrics.EmailFailed("report")
		return false, err
	}
	s.Metrics.EmailSent("report")
	return true, nil
}

// composeReport attaches the spreadsheet only when the window has trades.
func (s *ReportService) composeReport(ctx context.Context, userID, to string, period report.Period, start, end time.Time) (email.Message, error) {
	trades, err := s.Repo.ListAllTrades(ctx, userID, &start, &end)
	if err != nil {
		return email.Message{}, err
	}
	summary := report.Summarize(trades)
	title := fmt.Sprintf("%s trading report %s", period.Title(), report.Label(period, start))
	html, err := s.Sanitizer.RenderReport(report.ReportEmail{
		Title:          title,
		Start:          start,
		End:            end,
		Trades:         trades,
		Summary:        summary,
		PreferencesURL: s.PreferencesURL,
	})
	if err != nil {
		return email.Message{}, err
	}
	msg := email.Message{To: []string{to}, Subject: title, HTML: html}
	if len(trades) > 0 {
		content, err := report.BuildWorkbook(report.WorkbookInput{
			Title:    title,
			Start:    start,
			End:      end,
			Trades:   trades,
			Summary:  summary,
			Password: s.WorkbookPassword,
		})
		if err != nil {
			return email.Message{}, err
		}
		msg.Attachments = []email.Attachment{{Filename: workbookName(period, start), Content: content}}
	}
	return msg, nil
}

func workbookName(period report.Period, start time.Time) string {
	return fmt.Sprintf("trading-report-%s.xlsx", report.Label(period, start))
}
