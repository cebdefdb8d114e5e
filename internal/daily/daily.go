// internal/daily/daily.go
//
// Day-boundary helpers shared by the scheduler and the session store.
// The game day rolls over at local midnight; every TTL written to the
// key-value store is the time remaining until that boundary.

package daily

import "time"

// DateKey returns YYYY-MM-DD for t in its own location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// UntilMidnight returns the duration from now until the next local midnight.
// Always positive; exactly at midnight it returns a full day.
func UntilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
