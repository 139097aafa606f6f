// Package datastore persists watcher state between cycles: the change
// detection state file, the latest rendered snapshot, and an optional
// SQLite cycle history.
package datastore

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/common"
)

// WatcherState is the change detection state persisted between runs.
type WatcherState struct {
	Fingerprint string    `json:"fingerprint"`
	UpdatedAt   time.Time `json:"updated_at"`
	SourceURL   string    `json:"source_url"`
}

// IsZero reports whether no snapshot has been recorded yet.
func (ws WatcherState) IsZero() bool {
	return ws.Fingerprint == ""
}

// StateStore reads and writes the JSON state file.
//
// Load never fails: a missing, unreadable, or corrupt state file yields
// the zero state, so the next successful post rebuilds it. Save failures
// are reported so the caller can keep the in-memory state authoritative.
type StateStore struct {
	path   string
	logger zerolog.Logger
}

// NewStateStore creates a StateStore for the given file path.
func NewStateStore(path string, logger zerolog.Logger) *StateStore {
	return &StateStore{
		path:   path,
		logger: logger.With().Str("component", "StateStore").Logger(),
	}
}

// Path returns the state file path.
func (ss *StateStore) Path() string {
	return ss.path
}

// Load reads the persisted state, falling back to the zero state.
func (ss *StateStore) Load() WatcherState {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		if os.IsNotExist(err) {
			ss.logger.Debug().Str("path", ss.path).Msg("No state file found, starting fresh")
		} else {
			ss.logger.Warn().Err(err).Str("path", ss.path).Msg("Could not read state file, starting fresh")
		}
		return WatcherState{}
	}

	var state WatcherState
	if err := json.Unmarshal(data, &state); err != nil {
		ss.logger.Warn().Err(err).Str("path", ss.path).Msg("State file is corrupt, starting fresh")
		return WatcherState{}
	}

	ss.logger.Debug().
		Str("path", ss.path).
		Str("fingerprint", state.Fingerprint).
		Time("updated_at", state.UpdatedAt).
		Msg("Loaded watcher state")
	return state
}

// Save writes the state file, creating parent directories as needed.
func (ss *StateStore) Save(state WatcherState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return common.NewStateError(ss.path, "marshal", err)
	}
	data = append(data, '\n')

	if err := common.WriteFileWithDirs(ss.path, data, 0644); err != nil {
		return common.NewStateError(ss.path, "write", err)
	}

	ss.logger.Debug().Str("path", ss.path).Str("fingerprint", state.Fingerprint).Msg("Saved watcher state")
	return nil
}
