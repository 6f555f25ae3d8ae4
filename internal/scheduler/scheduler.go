package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/config"
	"github.com/shukli/price-ingest/internal/ingest"
)

// Scheduler triggers the full ingest pipeline at fixed times of day in the
// configured timezone. A failing or panicking run is logged and never crashes
// the process; the next trigger proceeds independently.
type Scheduler struct {
	cron   *cron.Cron
	uc     ingest.UseCase
	logger *zap.Logger
}

func New(cfg *config.SchedulerConfig, uc ingest.UseCase, logger *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading scheduler timezone %q: %w", cfg.Timezone, err)
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{logger})),
		),
		uc:     uc,
		logger: logger,
	}

	for _, at := range cfg.RunAt {
		spec, err := cronSpec(at)
		if err != nil {
			return nil, err
		}
		if _, err := s.cron.AddFunc(spec, s.runJob); err != nil {
			return nil, fmt.Errorf("registering trigger %q: %w", at, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts future triggers; the returned context is done once any running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runJob() {
	report, err := s.uc.RunOnce(context.Background())
	if errors.Is(err, ingest.ErrRunInProgress) {
		s.logger.Warn("previous ingest run still active, skipping trigger")
		return
	}
	if err != nil {
		s.logger.Error("ingest run failed", zap.Error(err))
		if report == nil {
			return
		}
	}

	persisted, failed := report.Totals()
	s.logger.Info("ingest run finished",
		zap.String("run_id", report.RunID),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
		zap.Int("stores", len(report.Stores)),
		zap.Int("persisted", persisted),
		zap.Int("failed", failed),
	)
}

// cronSpec converts an "HH:MM" time of day into a daily cron expression.
func cronSpec(at string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(at))
	if err != nil {
		return "", fmt.Errorf("invalid trigger time %q, want HH:MM: %w", at, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// cronLogger adapts zap to the cron.Logger interface used by the recovery
// chain.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
