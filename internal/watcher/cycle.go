package watcher

import "time"

// CycleResult summarizes one completed watch cycle.
type CycleResult struct {
	CycleID     string
	FetchedAt   time.Time
	Duration    time.Duration
	RowCount    int
	Fingerprint string
	Changed     bool
	Posted      bool
}

// newCycleID returns a timestamp based identifier for one watch cycle.
func newCycleID() string {
	return time.Now().Format("20060102-150405")
}
