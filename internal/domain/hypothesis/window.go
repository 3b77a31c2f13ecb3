// Package hypothesis selects rides for the weather comparison and runs
// Welch's two-sample t-test on their durations.
package hypothesis

import (
	"time"

	"github.com/okian/ridestats/internal/domain/model"
)

// Window selects rides starting on Weekday between Start and End,
// inclusive, compared at calendar-date granularity.
type Window struct {
	Weekday time.Weekday
	Start   time.Time
	End     time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Weekday() != w.Weekday {
		return false
	}
	d := civilDate(t)
	return d >= civilDate(w.Start) && d <= civilDate(w.End)
}

// SelectWindow returns the rides inside the window in their original order.
// The input is not modified; an end before the start selects nothing.
func SelectWindow(rides []model.Ride, w Window) []model.Ride {
	out := make([]model.Ride, 0, len(rides))
	for _, r := range rides {
		if w.Contains(r.Start) {
			out = append(out, r)
		}
	}
	return out
}

// civilDate packs the date of t, read in t's own location, into yyyymmdd.
func civilDate(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
