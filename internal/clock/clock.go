// Package clock abstracts wall-clock time so "today" can be fixed in tests.
// All plan and suggestion dates are local calendar days, never UTC-shifted.
package clock

import "time"

// DateFormat is the canonical calendar-day format used across the planner.
const DateFormat = "2006-01-02"

// Clock supplies the current time and the current local calendar day.
type Clock interface {
	Now() time.Time
	// Today returns the local calendar day as YYYY-MM-DD.
	Today() string
}

// System is the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) Today() string { return time.Now().Format(DateFormat) }

// Fixed is a clock pinned to a single instant, for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

func (f Fixed) Today() string { return f.T.Format(DateFormat) }

// DayWindow returns the [start, end) bounds of the local calendar day that
// contains t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
