package config

import (
	"time"
)

// WatcherConfig defines configuration for the watch loop
type WatcherConfig struct {
	SourceURL       string `json:"source_url,omitempty" yaml:"source_url,omitempty" validate:"required,httpurl"`
	IntervalSeconds int    `json:"interval_seconds,omitempty" yaml:"interval_seconds,omitempty" validate:"min=30"`
	TimeoutSeconds  int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
	RunOnce         bool   `json:"run_once" yaml:"run_once"`
	DebugHTMLFile   string `json:"debug_html_file,omitempty" yaml:"debug_html_file,omitempty"`
}

// NewDefaultWatcherConfig creates default watcher configuration
func NewDefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		SourceURL:       DefaultSourceURL,
		IntervalSeconds: DefaultIntervalSeconds,
		TimeoutSeconds:  DefaultTimeoutSeconds,
		RunOnce:         false,
		DebugHTMLFile:   "",
	}
}

// Interval returns the polling interval as a duration.
func (c WatcherConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Timeout returns the per-HTTP-call timeout as a duration. It applies to
// both the page fetch and the webhook delivery.
func (c WatcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
