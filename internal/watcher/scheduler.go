package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/common"
)

// CycleRunner executes one watch cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*CycleResult, error)
}

// Scheduler runs watch cycles on a fixed delay: the full interval is
// waited after each cycle completes, however long the cycle took. The
// first cycle runs immediately.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   zerolog.Logger

	stopChan  chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewScheduler creates a Scheduler driving the given runner.
func NewScheduler(runner CycleRunner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger.With().Str("component", "Scheduler").Logger(),
		stopChan: make(chan struct{}),
	}
}

// Run blocks, executing cycles until the context is cancelled or Stop is
// called. A failed cycle is logged and the loop keeps going; only
// shutdown ends it.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return common.NewError("scheduler is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Context cancelled, scheduler stopping")
			return nil
		case <-s.stopChan:
			s.logger.Info().Msg("Stop signal received, scheduler stopping")
			return nil
		default:
		}

		s.runCycleOnce(ctx)

		timer := time.NewTimer(s.interval)
		select {
		case <-timer.C:
		case <-s.stopChan:
			timer.Stop()
			s.logger.Info().Msg("Stop signal received during wait, scheduler stopping")
			return nil
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Context cancelled during wait, scheduler stopping")
			return nil
		}
	}
}

// runCycleOnce executes a single cycle, logging failures so the loop
// survives transient fetch, parse, or delivery problems.
func (s *Scheduler) runCycleOnce(ctx context.Context) {
	result, err := s.runner.RunCycle(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Watch cycle failed")
		return
	}
	s.logger.Debug().
		Str("cycle_id", result.CycleID).
		Int("row_count", result.RowCount).
		Bool("changed", result.Changed).
		Bool("posted", result.Posted).
		Msg("Watch cycle completed")
}

// Stop signals the scheduler to exit after the current cycle. Safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info().Msg("Stopping scheduler")
		close(s.stopChan)
	})
}
