package watcher

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog"
)

// Fingerprint returns the SHA-256 hex digest of the rendered snapshot text.
// Two snapshots with the same rendered text always produce the same
// fingerprint.
func Fingerprint(renderedText string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(renderedText)))
}

// CheckResult describes the outcome of a change check.
type CheckResult struct {
	Changed          bool
	Fingerprint      string
	PriorFingerprint string
}

// ChangeDetector compares snapshot fingerprints between cycles.
type ChangeDetector struct {
	logger zerolog.Logger
}

// NewChangeDetector creates a ChangeDetector.
func NewChangeDetector(logger zerolog.Logger) *ChangeDetector {
	return &ChangeDetector{
		logger: logger.With().Str("component", "ChangeDetector").Logger(),
	}
}

// Detect fingerprints the rendered text and compares it against the prior
// fingerprint. An empty prior fingerprint means no snapshot has been seen
// yet, which counts as changed.
func (cd *ChangeDetector) Detect(priorFingerprint, renderedText string) CheckResult {
	current := Fingerprint(renderedText)
	result := CheckResult{
		Changed:          priorFingerprint == "" || priorFingerprint != current,
		Fingerprint:      current,
		PriorFingerprint: priorFingerprint,
	}

	cd.logger.Debug().
		Bool("changed", result.Changed).
		Str("fingerprint", current).
		Str("prior_fingerprint", priorFingerprint).
		Msg("Change check completed")
	return result
}
