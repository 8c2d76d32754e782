package util

import (
	"fmt"
	"time"
)

// Layouts accepted for dates and timestamps throughout the system. All
// values are interpreted as UTC unless the timestamp carries a zone.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var timestampLayouts = []string{
	time.RFC3339,
	DateTimeLayout,
	"2006-01-02T15:04:05",
}

// ParseDate parses a pure calendar date string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// ParseDateOrTime parses either a pure date or a full timestamp. The second
// return value reports whether the input was a pure date (no time-of-day).
func ParseDateOrTime(s string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, true, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognised date or timestamp %q", s)
}

// WeekdayMon0 converts t's weekday to the Monday=0..Sunday=6 convention used
// by obligation schedules.
func WeekdayMon0(t time.Time) int {
	// time.Weekday has Sunday=0.
	return (int(t.Weekday()) + 6) % 7
}
