package notifier

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp layout used in the snapshot message header.
const headerTimeLayout = "2006-01-02 15:04:05"

// SnapshotMessage carries everything needed to present one cycle's result.
// The rendered snapshot is the canonical text; the header and diff section
// are presentation only and never feed change detection.
type SnapshotMessage struct {
	SourceURL        string
	FetchedAt        time.Time
	RenderedSnapshot string
	RowCount         int
	Changed          bool
	DiffSummary      string
}

// FormatSnapshotMessage builds the human readable message for one snapshot.
func FormatSnapshotMessage(msg SnapshotMessage) string {
	var b strings.Builder

	stamp := msg.FetchedAt.UTC().Format(headerTimeLayout)
	fmt.Fprintf(&b, "Ranking snapshot (%s UTC)\n", stamp)
	fmt.Fprintf(&b, "Source: %s\n\n", msg.SourceURL)
	b.WriteString(msg.RenderedSnapshot)

	if msg.Changed && msg.DiffSummary != "" {
		b.WriteString("\nChanges since last snapshot:\n")
		b.WriteString(msg.DiffSummary)
	}

	return strings.TrimRight(b.String(), "\n")
}
