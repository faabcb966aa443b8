// Package scheduler drives watch mode: the audit re-runs on a cron
// schedule until the process is signalled.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
)

// Scheduler repeats a job on a validated cron schedule
type Scheduler struct {
	schedule string
	job      func(ctx context.Context)
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
	logger   arbor.ILogger
}

// New validates the schedule and builds a scheduler around job
func New(schedule string, job func(ctx context.Context)) (*Scheduler, error) {
	if err := common.ValidateWatchSchedule(schedule); err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("watch job cannot be nil")
	}

	return &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   common.GetLogger().WithPrefix("scheduler"),
	}, nil
}

// Run executes the job immediately, then on schedule until ctx is
// cancelled. Overlapping executions are skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().Str("schedule", s.schedule).Msg("Watch mode started")

	s.execute(ctx)

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to register watch schedule: %w", err)
	}

	s.cron.Start()
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	s.logger.Info().Msg("Watch mode stopped")
	return nil
}

func (s *Scheduler) execute(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.job(ctx)
}
