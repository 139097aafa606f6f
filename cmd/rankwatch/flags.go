package main

import (
	"flag"
	"os"

	"github.com/aleister1102/rankwatch/internal/config"
)

// AppFlags holds the parsed command line flags.
type AppFlags struct {
	ConfigFile      string
	SourceURL       string
	IntervalSeconds int
	TimeoutSeconds  int
	WebhookURL      string
	StateFile       string
	OutputFile      string
	RunOnce         bool
	AlwaysPost      bool
	DebugHTMLFile   string
	HistoryDBPath   string
	LogLevel        string
	LogFormat       string
	LogFile         string

	set map[string]bool
}

// ParseFlags parses the command line. Only flags the user actually set
// override the configuration file.
func ParseFlags() *AppFlags {
	flags := &AppFlags{set: make(map[string]bool)}

	flag.StringVar(&flags.ConfigFile, "config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	flag.StringVar(&flags.ConfigFile, "c", "", "Alias for -config")

	flag.StringVar(&flags.SourceURL, "url", "", "Ranking page URL to watch (overrides config file if set)")
	flag.IntVar(&flags.IntervalSeconds, "interval", 0, "Seconds between checks (overrides config file if set)")
	flag.IntVar(&flags.TimeoutSeconds, "timeout", 0, "HTTP timeout in seconds (overrides config file if set)")
	flag.StringVar(&flags.WebhookURL, "webhook-url", "", "Webhook URL to post snapshots to; without one snapshots print to stdout")
	flag.StringVar(&flags.StateFile, "state-file", "", "Path to the change detection state file")
	flag.StringVar(&flags.OutputFile, "output-file", "", "Path the latest rendered snapshot is written to")
	flag.BoolVar(&flags.RunOnce, "run-once", false, "Run a single check and exit")
	flag.BoolVar(&flags.AlwaysPost, "always-post", false, "Post every snapshot, changed or not")
	flag.StringVar(&flags.DebugHTMLFile, "debug-html-file", "", "Write fetched page HTML to this file for troubleshooting parsing")
	flag.StringVar(&flags.HistoryDBPath, "history-db", "", "Path to the SQLite cycle history database; empty disables history")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error, fatal")
	flag.StringVar(&flags.LogFormat, "log-format", "", "Log format: console, json, or text")
	flag.StringVar(&flags.LogFile, "log-file", "", "Log file path; empty logs to stderr only")

	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})
	if flags.set["c"] {
		flags.set["config"] = true
	}

	return flags
}

// IsSet reports whether the named flag was provided on the command line.
func (af *AppFlags) IsSet(name string) bool {
	return af.set[name]
}

// ApplyToConfig overlays command line flags onto the loaded configuration.
// Precedence for the webhook URL is flag, then the WEBHOOK_URL environment
// variable, then the configuration file.
func (af *AppFlags) ApplyToConfig(cfg *config.GlobalConfig) {
	if env := os.Getenv(config.WebhookURLEnvVar); env != "" {
		cfg.NotificationConfig.WebhookURL = env
	}
	if af.IsSet("webhook-url") {
		cfg.NotificationConfig.WebhookURL = af.WebhookURL
	}

	if af.IsSet("url") {
		cfg.WatcherConfig.SourceURL = af.SourceURL
	}
	if af.IsSet("interval") {
		cfg.WatcherConfig.IntervalSeconds = af.IntervalSeconds
	}
	if af.IsSet("timeout") {
		cfg.WatcherConfig.TimeoutSeconds = af.TimeoutSeconds
	}
	if af.IsSet("run-once") {
		cfg.WatcherConfig.RunOnce = af.RunOnce
	}
	if af.IsSet("debug-html-file") {
		cfg.WatcherConfig.DebugHTMLFile = af.DebugHTMLFile
	}
	if af.IsSet("always-post") {
		cfg.NotificationConfig.AlwaysPost = af.AlwaysPost
	}
	if af.IsSet("state-file") {
		cfg.StorageConfig.StateFilePath = af.StateFile
	}
	if af.IsSet("output-file") {
		cfg.StorageConfig.OutputFilePath = af.OutputFile
	}
	if af.IsSet("history-db") {
		cfg.StorageConfig.HistoryDBPath = af.HistoryDBPath
	}
	if af.IsSet("log-level") {
		cfg.LogConfig.LogLevel = af.LogLevel
	}
	if af.IsSet("log-format") {
		cfg.LogConfig.LogFormat = af.LogFormat
	}
	if af.IsSet("log-file") {
		cfg.LogConfig.LogFile = af.LogFile
	}
}
