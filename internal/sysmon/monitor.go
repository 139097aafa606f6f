package sysmon

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StatsMonitor periodically logs resource usage at debug level. It runs
// only in loop mode; a single cycle is too short to be worth sampling.
type StatsMonitor struct {
	logger    zerolog.Logger
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.Mutex
	startTime time.Time
}

// NewStatsMonitor creates a StatsMonitor sampling at the given interval.
func NewStatsMonitor(interval time.Duration, logger zerolog.Logger) *StatsMonitor {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &StatsMonitor{
		logger:   logger.With().Str("component", "StatsMonitor").Logger(),
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the sampling goroutine. Calling Start on a running
// monitor is a no-op.
func (sm *StatsMonitor) Start() {
	sm.mu.Lock()
	if sm.isRunning {
		sm.mu.Unlock()
		return
	}
	sm.isRunning = true
	sm.startTime = time.Now()
	sm.mu.Unlock()

	sm.wg.Add(1)
	go sm.monitorLoop()

	sm.logger.Debug().Dur("interval", sm.interval).Msg("Resource stats monitor started")
}

// Stop ends the sampling goroutine and logs a final sample.
func (sm *StatsMonitor) Stop() {
	sm.mu.Lock()
	if !sm.isRunning {
		sm.mu.Unlock()
		return
	}
	sm.isRunning = false
	sm.mu.Unlock()

	sm.cancel()
	sm.wg.Wait()

	sm.logStats(true)
	sm.logger.Debug().Msg("Resource stats monitor stopped")
}

func (sm *StatsMonitor) monitorLoop() {
	defer sm.wg.Done()

	ticker := time.NewTicker(sm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.ctx.Done():
			return
		case <-ticker.C:
			sm.logStats(false)
		}
	}
}

func (sm *StatsMonitor) logStats(isFinal bool) {
	usage := GetResourceUsage()

	sm.mu.Lock()
	uptime := time.Since(sm.startTime)
	sm.mu.Unlock()

	logType := "Resource stats"
	if isFinal {
		logType = "Final resource stats"
	}

	sm.logger.Debug().
		Str("type", logType).
		Int64("memory_mb", usage.AllocMB).
		Int64("system_memory_mb", usage.SystemMemUsedMB).
		Float64("system_memory_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Dur("uptime", uptime).
		Msg("Resource statistics")
}
