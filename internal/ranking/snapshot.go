package ranking

import (
	"fmt"
	"strings"
)

// Row is one parsed ranking table row. Fields keep their display form as
// extracted from the source; no numeric coercion happens anywhere.
type Row struct {
	Position string
	Name     string
	Points   string
}

// Snapshot is the ordered row sequence from one fetch. Source order is
// ranking order and is preserved through rendering.
type Snapshot struct {
	Rows []Row
}

// NewSnapshot creates a snapshot from parsed rows.
func NewSnapshot(rows []Row) Snapshot {
	return Snapshot{Rows: rows}
}

// Render returns the canonical text form of the snapshot, one line per row,
// each line terminated with a newline. The output is byte-identical for
// equal row sequences; the fingerprint, the output file, and notification
// bodies all consume this exact text.
func (s Snapshot) Render() string {
	var b strings.Builder
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "%s. %s — %s pts\n", row.Position, row.Name, row.Points)
	}
	return b.String()
}

// IsEmpty reports whether the snapshot holds no rows.
func (s Snapshot) IsEmpty() bool {
	return len(s.Rows) == 0
}

// RowCount returns the number of rows.
func (s Snapshot) RowCount() int {
	return len(s.Rows)
}
