// Package differ compares two rendered ranking snapshots and summarizes
// what changed between them.
package differ

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// SnapshotDiff describes the difference between two rendered snapshots.
type SnapshotDiff struct {
	LinesAdded   int
	LinesDeleted int
	IsIdentical  bool
	// Summary quotes the changed lines, prefixed with "+ " or "- ",
	// capped at DiffConfig.MaxSummaryLines.
	Summary string
}

// SnapshotDiffer computes line level diffs between rendered snapshots.
type SnapshotDiffer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
	logger zerolog.Logger
}

// NewSnapshotDiffer creates a SnapshotDiffer with the given configuration.
func NewSnapshotDiffer(cfg DiffConfig, logger zerolog.Logger) *SnapshotDiffer {
	return &SnapshotDiffer{
		dmp:    diffmatchpatch.New(),
		config: cfg,
		logger: logger.With().Str("component", "SnapshotDiffer").Logger(),
	}
}

// Diff compares the previous rendered snapshot with the current one.
func (sd *SnapshotDiffer) Diff(previousText, currentText string) *SnapshotDiff {
	if previousText == currentText {
		return &SnapshotDiff{IsIdentical: true}
	}

	diffs := sd.computeDiffs(previousText, currentText)

	result := &SnapshotDiff{}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			result.LinesAdded += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			result.LinesDeleted += countLines(d.Text)
		}
	}
	result.IsIdentical = result.LinesAdded == 0 && result.LinesDeleted == 0
	result.Summary = sd.buildSummary(diffs)

	sd.logger.Debug().
		Int("lines_added", result.LinesAdded).
		Int("lines_deleted", result.LinesDeleted).
		Msg("Snapshot diff computed")

	return result
}

func (sd *SnapshotDiffer) computeDiffs(previousText, currentText string) []diffmatchpatch.Diff {
	if sd.config.EnableLineBasedDiff {
		prevRunes, currRunes, lineArray := sd.dmp.DiffLinesToChars(previousText, currentText)
		diffs := sd.dmp.DiffMain(prevRunes, currRunes, false)
		return sd.dmp.DiffCharsToLines(diffs, lineArray)
	}

	diffs := sd.dmp.DiffMain(previousText, currentText, false)
	if sd.config.EnableSemanticCleanup {
		diffs = sd.dmp.DiffCleanupSemantic(diffs)
	}
	return diffs
}

func (sd *SnapshotDiffer) buildSummary(diffs []diffmatchpatch.Diff) string {
	var changed []string
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range splitDiffLines(d.Text) {
			changed = append(changed, prefix+line)
		}
	}

	maxLines := sd.config.MaxSummaryLines
	if maxLines > 0 && len(changed) > maxLines {
		omitted := len(changed) - maxLines
		changed = append(changed[:maxLines], fmt.Sprintf("(%d more changed lines)", omitted))
	}
	return strings.Join(changed, "\n")
}

// splitDiffLines splits a diff fragment into its lines, dropping the
// trailing empty element produced by a terminating newline.
func splitDiffLines(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
