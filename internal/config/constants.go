package config

const (
	// Watcher Defaults
	DefaultSourceURL       = "https://www.sodiwseries.com/en-gb/rankings/global/2026/slovakia-c37/junior-cup-3"
	DefaultIntervalSeconds = 300
	DefaultTimeoutSeconds  = 20
	// MinIntervalSeconds is the lowest polling interval the watcher accepts.
	// Kept in sync with the min=30 validate tag on WatcherConfig.
	MinIntervalSeconds = 30

	// HTTP Client Defaults
	DefaultUserAgent      = "rankwatch/1.0"
	DefaultMaxContentSize = 10 * 1024 * 1024 // bytes

	// Storage Defaults
	DefaultStateFilePath  = ".rankwatch_state.json"
	DefaultOutputFilePath = "ranking_latest.txt"
	DefaultHistoryDBPath  = "" // empty disables the cycle history database

	// Resource Stats Defaults
	DefaultResourceStatsIntervalSeconds = 60

	// Environment variables
	WebhookURLEnvVar = "WEBHOOK_URL"
	ConfigPathEnvVar = "RANKWATCH_CONFIG_PATH"
)
