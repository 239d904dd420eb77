// Package timeutil provides UTC time helpers and activity timestamp parsing.
// All league scoring windows are computed in UTC, and activity timestamps
// arrive as ISO-8601 strings whose trailing zone designator ("Z") must be
// normalized before comparison.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// activityLayouts are the accepted ISO-8601 shapes for activity timestamps,
// tried in order after the trailing "Z" has been stripped.
var activityLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseActivityTime parses an ISO-8601 activity timestamp as UTC.
// A trailing "Z" zone designator is stripped before parsing so that
// "2024-05-01T10:30:00Z" and "2024-05-01T10:30:00" compare identically.
func ParseActivityTime(s string) (time.Time, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("timeutil: empty timestamp")
	}
	for _, layout := range activityLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timeutil: unrecognized timestamp %q", s)
}

// FormatActivityTime formats a time as an ISO-8601 UTC timestamp with the
// trailing zone designator, the shape the mobile client sends and expects.
func FormatActivityTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// TrailingCutoff returns the inclusive lower bound of a trailing window of
// the given number of days, anchored at now. Evaluated once per scoring
// invocation so every record in a batch shares the same cutoff.
func TrailingCutoff(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}

// StartOfDayUTC returns the start of the day (00:00:00) in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
