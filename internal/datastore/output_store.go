package datastore

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/aleister1102/rankwatch/internal/common"
)

// OutputStore writes the latest rendered snapshot to a text file.
//
// The file always holds the exact rendered text of the most recent
// successful cycle, overwritten whether or not the snapshot changed.
type OutputStore struct {
	path   string
	logger zerolog.Logger
}

// NewOutputStore creates an OutputStore for the given file path.
func NewOutputStore(path string, logger zerolog.Logger) *OutputStore {
	return &OutputStore{
		path:   path,
		logger: logger.With().Str("component", "OutputStore").Logger(),
	}
}

// Path returns the output file path.
func (s *OutputStore) Path() string {
	return s.path
}

// Write overwrites the output file with the rendered snapshot text.
func (s *OutputStore) Write(renderedText string) error {
	if err := common.WriteFileWithDirs(s.path, []byte(renderedText), 0644); err != nil {
		return common.NewStateError(s.path, "write", err)
	}
	s.logger.Debug().Str("path", s.path).Int("bytes", len(renderedText)).Msg("Wrote rendered snapshot")
	return nil
}

// ReadPrevious returns the previously written snapshot text, if any.
func (s *OutputStore) ReadPrevious() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Could not read previous snapshot")
		}
		return "", false
	}
	return string(data), true
}
