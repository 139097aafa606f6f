package config

// StorageConfig defines configuration for persisted artifacts
type StorageConfig struct {
	StateFilePath  string `json:"state_file_path,omitempty" yaml:"state_file_path,omitempty" validate:"required"`
	OutputFilePath string `json:"output_file_path,omitempty" yaml:"output_file_path,omitempty" validate:"required"`
	HistoryDBPath  string `json:"history_db_path,omitempty" yaml:"history_db_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		StateFilePath:  DefaultStateFilePath,
		OutputFilePath: DefaultOutputFilePath,
		HistoryDBPath:  DefaultHistoryDBPath,
	}
}
