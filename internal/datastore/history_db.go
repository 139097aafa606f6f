package datastore

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/aleister1102/rankwatch/internal/common"
)

// Cycle statuses recorded in cycle_history.
const (
	CycleStatusStarted   = "STARTED"
	CycleStatusCompleted = "COMPLETED"
	CycleStatusFailed    = "FAILED"
)

// HistoryDB wraps the SQL database connection and records one row per
// watch cycle. It is an audit trail only; scheduling never depends on it.
type HistoryDB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// CycleHistoryEntry represents a record in the cycle_history table.
type CycleHistoryEntry struct {
	ID             int64
	CycleSessionID string
	CycleStartTime time.Time
	CycleEndTime   sql.NullTime
	Status         string
	SourceURL      string
	RowCount       int
	Changed        bool
	Fingerprint    sql.NullString
	ErrorSummary   sql.NullString
}

// NewHistoryDB opens the cycle history database and ensures the schema.
func NewHistoryDB(dataSourceName string, logger zerolog.Logger) (*HistoryDB, error) {
	log := logger.With().Str("component", "HistoryDB").Logger()
	log.Info().Str("db_path", dataSourceName).Msg("Initializing cycle history database")

	if err := common.EnsureDirectory(filepath.Dir(dataSourceName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history database directory: %w", err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	hdb := &HistoryDB{
		db:     dbInstance,
		logger: log,
	}

	if err := hdb.InitSchema(); err != nil {
		hdb.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// InitSchema creates the cycle_history table if it doesn't already exist.
func (h *HistoryDB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS cycle_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_session_id TEXT UNIQUE,
		cycle_start_time DATETIME NOT NULL,
		cycle_end_time DATETIME,
		status TEXT NOT NULL,
		source_url TEXT NOT NULL,
		row_count INTEGER DEFAULT 0,
		changed INTEGER DEFAULT 0,
		fingerprint TEXT,
		error_summary TEXT
	);
	`
	if _, err := h.db.Exec(query); err != nil {
		h.logger.Error().Err(err).Msg("Failed to initialize cycle history schema")
		return err
	}
	return nil
}

// RecordCycleStart inserts a new cycle_history record with status STARTED
// and returns the ID of the inserted row.
func (h *HistoryDB) RecordCycleStart(cycleSessionID, sourceURL string, startTime time.Time) (int64, error) {
	query := `INSERT INTO cycle_history (cycle_session_id, source_url, cycle_start_time, status) VALUES (?, ?, ?, ?)`
	result, err := h.db.Exec(query, cycleSessionID, sourceURL, startTime, CycleStatusStarted)
	if err != nil {
		return 0, fmt.Errorf("failed to insert cycle start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	h.logger.Debug().Int64("db_id", id).Str("cycle_session_id", cycleSessionID).Msg("Recorded cycle start")
	return id, nil
}

// UpdateCycleCompletion fills in the outcome of a previously started cycle.
func (h *HistoryDB) UpdateCycleCompletion(dbCycleID int64, endTime time.Time, status string, rowCount int, changed bool, fingerprint, errorSummary string) error {
	query := `UPDATE cycle_history SET cycle_end_time = ?, status = ?, row_count = ?, changed = ?, fingerprint = ?, error_summary = ? WHERE id = ?`
	_, err := h.db.Exec(query,
		endTime,
		status,
		rowCount,
		changed,
		sql.NullString{String: fingerprint, Valid: fingerprint != ""},
		sql.NullString{String: errorSummary, Valid: errorSummary != ""},
		dbCycleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cycle completion for ID %d: %w", dbCycleID, err)
	}
	h.logger.Debug().Int64("db_id", dbCycleID).Str("status", status).Msg("Updated cycle completion")
	return nil
}

// GetLastCompletedCycleTime returns the start time of the most recent
// completed cycle, or sql.ErrNoRows if none exists.
func (h *HistoryDB) GetLastCompletedCycleTime() (*time.Time, error) {
	query := `SELECT cycle_start_time FROM cycle_history WHERE status = ? ORDER BY cycle_start_time DESC LIMIT 1`
	var startTime time.Time
	err := h.db.QueryRow(query, CycleStatusCompleted).Scan(&startTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query last completed cycle time: %w", err)
	}
	return &startTime, nil
}

// GetRecentCycles returns the most recent cycle records, newest first.
func (h *HistoryDB) GetRecentCycles(limit int) ([]CycleHistoryEntry, error) {
	query := `SELECT id, cycle_session_id, cycle_start_time, cycle_end_time, status, source_url, row_count, changed, fingerprint, error_summary
	FROM cycle_history ORDER BY cycle_start_time DESC, id DESC LIMIT ?`
	rows, err := h.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent cycles: %w", err)
	}
	defer rows.Close()

	var entries []CycleHistoryEntry
	for rows.Next() {
		var e CycleHistoryEntry
		if err := rows.Scan(&e.ID, &e.CycleSessionID, &e.CycleStartTime, &e.CycleEndTime, &e.Status, &e.SourceURL, &e.RowCount, &e.Changed, &e.Fingerprint, &e.ErrorSummary); err != nil {
			return nil, fmt.Errorf("failed to scan cycle history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
