package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/aleister1102/rankwatch/internal/logger"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	WatcherConfig       WatcherConfig       `json:"watcher_config,omitempty" yaml:"watcher_config,omitempty"`
	HTTPClientConfig    HTTPClientConfig    `json:"http_client_config,omitempty" yaml:"http_client_config,omitempty"`
	NotificationConfig  NotificationConfig  `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	StorageConfig       StorageConfig       `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	LogConfig           logger.LogConfig    `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ResourceStatsConfig ResourceStatsConfig `json:"resource_stats_config,omitempty" yaml:"resource_stats_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		WatcherConfig:       NewDefaultWatcherConfig(),
		HTTPClientConfig:    NewDefaultHTTPClientConfig(),
		NotificationConfig:  NewDefaultNotificationConfig(),
		StorageConfig:       NewDefaultStorageConfig(),
		LogConfig:           logger.NewDefaultLogConfig(),
		ResourceStatsConfig: NewDefaultResourceStatsConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats, selected by file extension. When no config file
// exists anywhere, the built-in defaults are returned.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, common.NewValidationError("config_file", providedPath, "config file does not exist")
		}
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read config file '%s'", filePath)
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.WrapErrorf(err, "failed to unmarshal YAML from '%s'", filePath)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.WrapErrorf(err, "failed to unmarshal JSON from '%s'", filePath)
	}
	return nil
}
