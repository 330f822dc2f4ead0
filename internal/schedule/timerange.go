// Package schedule holds the pure lesson classification logic: day/month
// range helpers, the lesson filter engine and the 12-slot month window
// calculator. Everything here is side-effect free and clock-injected.
package schedule

import "time"

// TodayRange returns the first and last instant of the day containing now,
// in now's location. An instant d counts as "today" iff start <= d <= end.
func TodayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// MonthRange returns the first and last instant of the month containing date.
func MonthRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// InRange reports whether instant lies within [start, end]. Both bounds are
// inclusive on purpose: lessons at exactly midnight or month-end must match.
func InRange(instant, start, end time.Time) bool {
	return !instant.Before(start) && !instant.After(end)
}
