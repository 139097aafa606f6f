package logger

import (
	"github.com/rs/zerolog"
)

// New creates a zerolog logger from the file-level configuration.
func New(cfg LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
