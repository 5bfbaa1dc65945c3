package models

import "time"

// DayFormat is the canonical wire/storage format for calendar days.
const DayFormat = "2006-01-02"

// Day truncates a timestamp to its calendar day in UTC. All day-keyed data
// in the store and the statistical core goes through this normalization so
// that equality and range checks never depend on clock time or zone.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}
