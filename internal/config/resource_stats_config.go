package config

import "time"

// ResourceStatsConfig defines configuration for periodic resource usage
// logging in long-running mode.
type ResourceStatsConfig struct {
	Enabled         bool `json:"enabled" yaml:"enabled"`
	IntervalSeconds int  `json:"interval_seconds,omitempty" yaml:"interval_seconds,omitempty" validate:"omitempty,min=1"`
}

// Interval returns the sampling interval as a duration.
func (c ResourceStatsConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// NewDefaultResourceStatsConfig creates default resource stats configuration
func NewDefaultResourceStatsConfig() ResourceStatsConfig {
	return ResourceStatsConfig{
		Enabled:         true,
		IntervalSeconds: DefaultResourceStatsIntervalSeconds,
	}
}
