package cronrunner

import (
	"context"
	"sync"
	"testing"
	"time"

	"tradejournal/internal/config"
	"tradejournal/internal/report"
	"tradejournal/internal/service"
)

type recordingReports struct {
	mu      sync.Mutex
	periods []report.Period
}

func (r *recordingReports) RunScheduledReports(_ context.Context, p report.Period, _ time.Time) (*service.ReportRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods = append(r.periods, p)
	return &service.ReportRun{Period: p}, nil
}

func TestAddReportJobs_RegistersConfiguredPeriods(t *testing.T) {
	r := New(nil, context.Background(), time.UTC)
	err := r.AddReportJobs(config.CronConfig{Weekly: "0 0 7 * * *", Monthly: "0 5 7 * * *"}, &recordingReports{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if n := len(r.cron.Entries()); n != 2 {
		t.Fatalf("entries=%d want 2", n)
	}
}

func TestAddReportJobs_RejectsBadSpec(t *testing.T) {
	r := New(nil, context.Background(), time.UTC)
	if err := r.AddReportJobs(config.CronConfig{Weekly: "every monday"}, &recordingReports{}); err == nil {
		t.Fatalf("expected spec error")
	}
}

func TestAddReportJobs_JobCallsReports(t *testing.T) {
	r := New(nil, context.Background(), time.UTC)
	rec := &recordingReports{}
	if err := r.AddReportJobs(config.CronConfig{Yearly: "* * * * * *"}, rec); err != nil {
		t.Fatalf("add: %v", err)
	}
	entries := r.cron.Entries()
	entries[0].WrappedJob.Run()
	if len(rec.periods) != 1 || rec.periods[0] != report.Yearly {
		t.Fatalf("periods=%v", rec.periods)
	}
}
