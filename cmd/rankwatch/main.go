package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/rankwatch/internal/config"
	"github.com/aleister1102/rankwatch/internal/datastore"
	"github.com/aleister1102/rankwatch/internal/httpclient"
	"github.com/aleister1102/rankwatch/internal/logger"
	"github.com/aleister1102/rankwatch/internal/notifier"
	"github.com/aleister1102/rankwatch/internal/sysmon"
	"github.com/aleister1102/rankwatch/internal/watcher"

	"github.com/rs/zerolog"
)

// Exit codes. Configuration problems exit 2 so wrappers can tell a bad
// invocation apart from a failed check.
const (
	exitOK          = 0
	exitCycleFailed = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Could not load configuration: %v\n", err)
		return exitConfigError
	}
	flags.ApplyToConfig(gCfg)

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Could not initialize logger: %v\n", err)
		return exitConfigError
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Error().Err(err).Msg("Configuration validation failed")
		return exitConfigError
	}

	zLogger.Info().
		Str("url", gCfg.WatcherConfig.SourceURL).
		Int("interval_seconds", gCfg.WatcherConfig.IntervalSeconds).
		Int("timeout_seconds", gCfg.WatcherConfig.TimeoutSeconds).
		Str("state_file", gCfg.StorageConfig.StateFilePath).
		Str("output_file", gCfg.StorageConfig.OutputFilePath).
		Bool("always_post", gCfg.NotificationConfig.AlwaysPost).
		Bool("webhook_configured", gCfg.NotificationConfig.WebhookURL != "").
		Msg("Starting rankwatch")

	client, err := httpclient.NewHTTPClient(buildClientConfig(gCfg), zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize HTTP client")
		return exitCycleFailed
	}

	sink, err := notifier.NewFromConfig(gCfg.NotificationConfig, client, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Failed to initialize notification sink")
		return exitConfigError
	}

	historyDB := openHistoryDB(gCfg, zLogger)
	if historyDB != nil {
		defer historyDB.Close()
	}

	service := watcher.NewWatcherService(gCfg, client, sink, historyDB, zLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, initiating graceful shutdown")
		cancel()
	}()

	if gCfg.WatcherConfig.RunOnce {
		return runOnce(ctx, service, zLogger)
	}
	return runLoop(ctx, gCfg, service, zLogger)
}

// runOnce executes a single watch cycle. A failed cycle is a failed run.
func runOnce(ctx context.Context, service *watcher.WatcherService, zLogger zerolog.Logger) int {
	result, err := service.RunCycle(ctx)
	if err != nil {
		zLogger.Error().Err(err).Msg("Watch cycle failed")
		return exitCycleFailed
	}
	zLogger.Info().
		Str("cycle_id", result.CycleID).
		Int("row_count", result.RowCount).
		Bool("changed", result.Changed).
		Bool("posted", result.Posted).
		Msg("Watch cycle completed")
	return exitOK
}

// runLoop runs cycles until a shutdown signal arrives. Individual cycle
// failures are logged inside the scheduler and never end the process.
func runLoop(ctx context.Context, gCfg *config.GlobalConfig, service *watcher.WatcherService, zLogger zerolog.Logger) int {
	var statsMonitor *sysmon.StatsMonitor
	if gCfg.ResourceStatsConfig.Enabled {
		statsMonitor = sysmon.NewStatsMonitor(gCfg.ResourceStatsConfig.Interval(), zLogger)
		statsMonitor.Start()
		defer statsMonitor.Stop()
	}

	scheduler := watcher.NewScheduler(service, gCfg.WatcherConfig.Interval(), zLogger)
	if err := scheduler.Run(ctx); err != nil {
		zLogger.Error().Err(err).Msg("Scheduler terminated with error")
		return exitCycleFailed
	}

	zLogger.Info().Msg("rankwatch stopped")
	return exitOK
}

// openHistoryDB opens the optional cycle history database. History is an
// audit trail: any failure here is logged and the watcher runs without it.
func openHistoryDB(gCfg *config.GlobalConfig, zLogger zerolog.Logger) *datastore.HistoryDB {
	if gCfg.StorageConfig.HistoryDBPath == "" {
		return nil
	}

	historyDB, err := datastore.NewHistoryDB(gCfg.StorageConfig.HistoryDBPath, zLogger)
	if err != nil {
		zLogger.Warn().Err(err).Str("path", gCfg.StorageConfig.HistoryDBPath).Msg("Cycle history disabled: database could not be opened")
		return nil
	}

	lastTime, err := historyDB.GetLastCompletedCycleTime()
	switch {
	case err == sql.ErrNoRows:
		zLogger.Debug().Msg("No completed cycles in history yet")
	case err != nil:
		zLogger.Warn().Err(err).Msg("Could not read last completed cycle from history")
	default:
		zLogger.Info().Time("last_completed_cycle", *lastTime).Msg("Cycle history loaded")
	}

	return historyDB
}

func buildClientConfig(gCfg *config.GlobalConfig) httpclient.ClientConfig {
	clientCfg := httpclient.DefaultClientConfig()
	clientCfg.Timeout = gCfg.WatcherConfig.Timeout()
	clientCfg.UserAgent = gCfg.HTTPClientConfig.UserAgent
	clientCfg.MaxContentSize = gCfg.HTTPClientConfig.MaxContentSize
	clientCfg.InsecureSkipVerify = gCfg.HTTPClientConfig.InsecureSkipVerify
	clientCfg.EnableHTTP2 = gCfg.HTTPClientConfig.EnableHTTP2
	return clientCfg
}
