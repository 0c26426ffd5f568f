package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepRunner is the subset of application functionality the driver needs.
type SweepRunner interface {
	Sweep(ctx context.Context, now time.Time)
}

// Sweeper owns the wall-clock cadence of the recurrence sweep. Cron aligns
// runs to fixed minute boundaries, so process restarts never drift the
// window. TriggerNow exposes the same sweep to read paths as an on-demand
// tick; overlapping invocations are skipped, and actual double-processing
// safety lives in the sweep's debounce and the storage constraint, not here.
type Sweeper struct {
	runner   SweepRunner
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex // held while a sweep is in flight
	stateMu sync.Mutex
	c       *cron.Cron
	runCtx  context.Context
	cancel  context.CancelFunc
}

// NewSweeper constructs the scheduler driver.
func NewSweeper(runner SweepRunner, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Sweeper{runner: runner, interval: interval, logger: logger}
}

// Start arms the cadence. The first run lands on the next wall-clock
// boundary, not interval-after-start.
func (s *Sweeper) Start(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.c != nil {
		return nil
	}

	// Start contexts are scoped to startup; keep values, drop cancellation.
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.c = cron.New(cron.WithLocation(time.UTC))
	if _, err := s.c.AddFunc(cronSpec(s.interval), s.tick); err != nil {
		s.cancel()
		s.c = nil
		return fmt.Errorf("arm sweep cadence: %w", err)
	}
	s.c.Start()
	s.logger.Info("sweep scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop disarms the cadence and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stateMu.Lock()
	c := s.c
	cancel := s.cancel
	// runCtx stays assigned (cancelled) so late TriggerNow calls no-op.
	s.c = nil
	s.stateMu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	s.mu.Lock() // drain: returns once the last sweep released it
	s.mu.Unlock()
	s.logger.Info("sweep scheduler stopped")
}

func (s *Sweeper) tick() {
	s.TriggerNow()
}

// TriggerNow runs one sweep immediately. Safe to call from any goroutine at
// any time; if a sweep is already running the call is a no-op, since the
// running sweep covers the same due set.
func (s *Sweeper) TriggerNow() {
	if !s.mu.TryLock() {
		return
	}
	defer s.mu.Unlock()

	ctx := s.currentCtx()
	if ctx.Err() != nil {
		return
	}
	s.runner.Sweep(ctx, time.Now().UTC())
}

func (s *Sweeper) currentCtx() context.Context {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.runCtx != nil {
		return s.runCtx
	}
	return context.Background()
}

// cronSpec renders a minute-aligned cron expression for the interval.
func cronSpec(interval time.Duration) string {
	minutes := int(interval.Minutes())
	if minutes <= 1 {
		return "* * * * *"
	}
	return fmt.Sprintf("*/%d * * * *", minutes)
}
