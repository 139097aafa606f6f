package differ

// DiffConfig controls how two rendered snapshots are compared.
type DiffConfig struct {
	// EnableLineBasedDiff compares whole lines instead of characters.
	// Rendered snapshots are line oriented, so this is the default.
	EnableLineBasedDiff bool `json:"enable_line_based_diff" yaml:"enable_line_based_diff"`
	// EnableSemanticCleanup tidies character level diffs for readability.
	// It only applies when line based diffing is disabled.
	EnableSemanticCleanup bool `json:"enable_semantic_cleanup" yaml:"enable_semantic_cleanup"`
	// MaxSummaryLines caps the number of changed lines quoted in the
	// human readable summary.
	MaxSummaryLines int `json:"max_summary_lines" yaml:"max_summary_lines"`
}

// DefaultDiffConfig returns the configuration used by the watcher.
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		EnableLineBasedDiff:   true,
		EnableSemanticCleanup: true,
		MaxSummaryLines:       10,
	}
}
