// -----------------------------------------------------------------------
// Scheduler Service - cron-driven daily report runs, serialized so a
// slow run is skipped rather than overlapped by the next tick
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// RunFunc is the zero-argument run-once entry point the scheduler drives.
type RunFunc func(ctx context.Context) bool

// Service wraps a cron schedule around the pipeline run.
type Service struct {
	cron    *cron.Cron
	run     RunFunc
	logger  arbor.ILogger
	runMu   sync.Mutex // Prevents overlapping runs
	running bool
	lastRun *time.Time
}

// NewService creates a new scheduler service.
func NewService(run RunFunc, logger arbor.ILogger) *Service {
	return &Service{
		cron:   cron.New(),
		run:    run,
		logger: logger,
	}
}

// Start begins the scheduler with the given cron expression.
func (s *Service) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "0 9 * * *" // Default: daily at 9:00 AM
	}

	if _, err := s.cron.AddFunc(cronExpr, s.tick); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Scheduler started")

	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	// Block until any in-flight run completes
	s.runMu.Lock()
	s.runMu.Unlock() //nolint:staticcheck // immediate unlock is the drain

	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
}

// IsRunning returns true if the scheduler is active.
func (s *Service) IsRunning() bool {
	return s.running
}

// LastRun returns the start time of the most recent run, if any.
func (s *Service) LastRun() *time.Time {
	return s.lastRun
}

// tick executes one scheduled run. If the previous run is still in
// flight the tick is skipped, per the one-run-at-a-time model.
func (s *Service) tick() {
	if !s.runMu.TryLock() {
		s.logger.Warn().Msg("Previous run still in progress, skipping this tick")
		return
	}
	defer s.runMu.Unlock()

	now := time.Now()
	s.lastRun = &now

	success := s.run(context.Background())

	s.logger.Info().
		Bool("success", success).
		Str("duration", time.Since(now).String()).
		Msg("Scheduled run finished")
}
