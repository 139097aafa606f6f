package logger

import (
	"io"
	stdlog "log"
	"strings"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides a fluent interface for building loggers
type LoggerBuilder struct {
	config  LoggerConfig
	factory *WriterFactory
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:  DefaultLoggerConfig(),
		factory: NewWriterFactory(),
	}
}

// WithConfig resolves a file-level LogConfig into the builder configuration.
// Unknown levels fall back to info.
func (lb *LoggerBuilder) WithConfig(cfg LogConfig) *LoggerBuilder {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	lb.config = LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     maxSizeOrDefault(cfg.MaxLogSizeMB),
		MaxBackups:    maxBackupsOrDefault(cfg.MaxLogBackups),
	}
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (zerolog.Logger, error) {
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return zerolog.Logger{}, common.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}

	writers := lb.createWriters()
	if len(writers) == 0 {
		return zerolog.Logger{}, common.NewError("no output writers configured")
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	zerologInstance := zerolog.New(multiWriter).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(lb.config.Level)
	lb.configureStandardLog(zerologInstance)

	return zerologInstance, nil
}

// createWriters creates the appropriate writers based on configuration
func (lb *LoggerBuilder) createWriters() []io.Writer {
	var writers []io.Writer

	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format))
	}
	if lb.config.EnableFile {
		writers = append(writers, lb.factory.CreateFileWriter(lb.config))
	}

	return writers
}

// configureStandardLog routes the standard Go log package through zerolog
func (lb *LoggerBuilder) configureStandardLog(logger zerolog.Logger) {
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)
}

func maxSizeOrDefault(maxSize int) int {
	if maxSize <= 0 {
		return DefaultMaxLogSizeMB
	}
	return maxSize
}

func maxBackupsOrDefault(maxBackups int) int {
	if maxBackups <= 0 {
		return DefaultMaxLogBackups
	}
	return maxBackups
}
