// Package watcher runs the fetch, parse, detect, persist, notify cycle
// against a single ranking page.
package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/config"
	"github.com/aleister1102/rankwatch/internal/datastore"
	"github.com/aleister1102/rankwatch/internal/differ"
	"github.com/aleister1102/rankwatch/internal/httpclient"
	"github.com/aleister1102/rankwatch/internal/notifier"
	"github.com/aleister1102/rankwatch/internal/ranking"
)

// WatcherService owns one watch target and executes its cycles.
//
// The in-memory state is authoritative for change detection. It only
// advances after a successful delivery, so a failed webhook post is
// retried with the same content on the next cycle.
type WatcherService struct {
	cfg         *config.GlobalConfig
	logger      zerolog.Logger
	fetcher     *Fetcher
	parser      *ranking.Parser
	detector    *ChangeDetector
	differ      *differ.SnapshotDiffer
	stateStore  *datastore.StateStore
	outputStore *datastore.OutputStore
	historyDB   *datastore.HistoryDB
	sink        notifier.Notifier

	state datastore.WatcherState
}

// NewWatcherService wires a WatcherService from its configuration. The
// history database may be nil when cycle history is disabled.
func NewWatcherService(
	cfg *config.GlobalConfig,
	client *httpclient.HTTPClient,
	sink notifier.Notifier,
	historyDB *datastore.HistoryDB,
	logger zerolog.Logger,
) *WatcherService {
	serviceLogger := logger.With().Str("component", "WatcherService").Logger()

	stateStore := datastore.NewStateStore(cfg.StorageConfig.StateFilePath, logger)

	ws := &WatcherService{
		cfg:         cfg,
		logger:      serviceLogger,
		fetcher:     NewFetcher(client, &cfg.WatcherConfig, logger),
		parser:      ranking.NewParser(logger),
		detector:    NewChangeDetector(logger),
		differ:      differ.NewSnapshotDiffer(differ.DefaultDiffConfig(), logger),
		stateStore:  stateStore,
		outputStore: datastore.NewOutputStore(cfg.StorageConfig.OutputFilePath, logger),
		historyDB:   historyDB,
		sink:        sink,
	}
	ws.state = stateStore.Load()
	return ws
}

// State returns the current in-memory watcher state.
func (ws *WatcherService) State() datastore.WatcherState {
	return ws.state
}

// RunCycle executes one complete watch cycle and records it in the cycle
// history when that is enabled. The returned error describes why the
// cycle failed; the caller decides whether to keep looping.
func (ws *WatcherService) RunCycle(ctx context.Context) (*CycleResult, error) {
	cycleID := newCycleID()
	startTime := time.Now()

	dbCycleID := ws.recordCycleStart(cycleID, startTime)
	result, err := ws.runCycle(ctx, cycleID)
	ws.recordCycleCompletion(dbCycleID, result, err)

	return result, err
}

func (ws *WatcherService) runCycle(ctx context.Context, cycleID string) (*CycleResult, error) {
	result := &CycleResult{CycleID: cycleID}

	fetchResult, err := ws.fetcher.FetchPage(ctx)
	if err != nil {
		return result, err
	}
	result.FetchedAt = fetchResult.FetchedAt

	rows, err := ws.parser.Parse(ws.cfg.WatcherConfig.SourceURL, fetchResult.Body)
	if err != nil {
		return result, err
	}
	snapshot := ranking.NewSnapshot(rows)
	result.RowCount = snapshot.RowCount()

	rendered := snapshot.Render()
	check := ws.detector.Detect(ws.state.Fingerprint, rendered)
	result.Fingerprint = check.Fingerprint
	result.Changed = check.Changed

	previousText, hadPrevious := ws.outputStore.ReadPrevious()
	if err := ws.outputStore.Write(rendered); err != nil {
		return result, err
	}

	diffSummary := ws.summarizeChange(check, previousText, hadPrevious, rendered)

	if check.Changed || ws.cfg.NotificationConfig.AlwaysPost {
		message := notifier.FormatSnapshotMessage(notifier.SnapshotMessage{
			SourceURL:        ws.cfg.WatcherConfig.SourceURL,
			FetchedAt:        fetchResult.FetchedAt,
			RenderedSnapshot: rendered,
			RowCount:         result.RowCount,
			Changed:          check.Changed,
			DiffSummary:      diffSummary,
		})
		if err := ws.sink.Notify(ctx, message); err != nil {
			ws.logger.Error().Err(err).Str("cycle_id", cycleID).Msg("Notification failed, snapshot will be redelivered next cycle")
			return result, err
		}
		result.Posted = true
	} else {
		ws.logger.Info().Str("cycle_id", cycleID).Int("row_count", result.RowCount).Msg("No ranking changes detected")
	}

	ws.advanceState(check)
	result.Duration = time.Since(fetchResult.FetchedAt)

	if check.Changed {
		ws.logger.Info().
			Str("cycle_id", cycleID).
			Int("row_count", result.RowCount).
			Str("fingerprint", check.Fingerprint).
			Msg("Ranking changed, snapshot posted")
	}
	return result, nil
}

// summarizeChange diffs the previous rendered snapshot against the new
// one. The summary feeds the notification only; change detection is
// fingerprint comparison alone.
func (ws *WatcherService) summarizeChange(check CheckResult, previousText string, hadPrevious bool, rendered string) string {
	if !check.Changed || !hadPrevious {
		return ""
	}
	diff := ws.differ.Diff(previousText, rendered)
	if diff.IsIdentical {
		return ""
	}
	ws.logger.Debug().
		Int("lines_added", diff.LinesAdded).
		Int("lines_deleted", diff.LinesDeleted).
		Msg("Snapshot content changed")
	return diff.Summary
}

// advanceState updates the in-memory state and rewrites the state file.
// A state file write failure is logged but does not fail the cycle; the
// in-memory fingerprint stays authoritative for this process.
func (ws *WatcherService) advanceState(check CheckResult) {
	if check.Changed {
		ws.state.Fingerprint = check.Fingerprint
	}
	ws.state.UpdatedAt = time.Now().UTC()
	ws.state.SourceURL = ws.cfg.WatcherConfig.SourceURL

	if err := ws.stateStore.Save(ws.state); err != nil {
		ws.logger.Error().Err(err).Str("path", ws.stateStore.Path()).Msg("Failed to persist watcher state")
	}
}

func (ws *WatcherService) recordCycleStart(cycleID string, startTime time.Time) int64 {
	if ws.historyDB == nil {
		return 0
	}
	dbCycleID, err := ws.historyDB.RecordCycleStart(cycleID, ws.cfg.WatcherConfig.SourceURL, startTime)
	if err != nil {
		ws.logger.Error().Err(err).Str("cycle_id", cycleID).Msg("Failed to record cycle start in history")
		return 0
	}
	return dbCycleID
}

func (ws *WatcherService) recordCycleCompletion(dbCycleID int64, result *CycleResult, cycleErr error) {
	if ws.historyDB == nil || dbCycleID == 0 {
		return
	}

	status := datastore.CycleStatusCompleted
	errorSummary := ""
	if cycleErr != nil {
		status = datastore.CycleStatusFailed
		errorSummary = cycleErr.Error()
	}

	err := ws.historyDB.UpdateCycleCompletion(dbCycleID, time.Now(), status, result.RowCount, result.Changed, result.Fingerprint, errorSummary)
	if err != nil {
		ws.logger.Error().Err(err).Int64("db_id", dbCycleID).Msg("Failed to record cycle completion in history")
	}
}
