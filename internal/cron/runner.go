package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tradejournal/internal/config"
	"tradejournal/internal/report"
	"tradejournal/internal/service"
)

type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context, loc *time.Location) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

// ReportRunner is the day-gated scheduled report job.
type ReportRunner interface {
	RunScheduledReports(ctx context.Context, period report.Period, now time.Time) (*service.ReportRun, error)
}

// AddReportJobs registers one daily entry per period. Each firing still goes
// through the trigger-day check, so an entry firing on a non-trigger day sends
// nothing.
func (r *Runner) AddReportJobs(cfg config.CronConfig, reports ReportRunner) error {
	specs := map[report.Period]string{
		report.Weekly:    cfg.Weekly,
		report.Monthly:   cfg.Monthly,
		report.Quarterly: cfg.Quarterly,
		report.Yearly:    cfg.Yearly,
	}
	for _, period := range report.Periods {
		spec := specs[period]
		if spec == "" {
			continue
		}
		if _, err := r.Add(spec, func(ctx context.Context) {
			run, err := reports.RunScheduledReports(ctx, period, time.Now())
			if err != nil {
				r.logger.Error("scheduled reports failed", zap.String("period", string(period)), zap.Error(err))
				return
			}
			r.logger.Info("scheduled reports",
				zap.String("period", string(period)),
				zap.Bool("triggered", run.Triggered),
				zap.Int("sent", run.Sent))
		}); err != nil {
			return err
		}
		r.logger.Info("report job registered", zap.String("period", string(period)), zap.String("spec", spec))
	}
	return nil
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
