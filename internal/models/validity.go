package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire.
const DateLayout = "2006-01-02"

// TimeOfDayLayout formats clock times on agenda items and sessions.
const TimeOfDayLayout = "15:04"

var recordDateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05-07",
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// ParseDate parses an ISO calendar date as a local day in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// ParseRecordDate accepts the date and timestamp shapes found in stored
// records. Values without a zone are read in loc.
func ParseRecordDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range recordDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// ValidityInterval is a closed interval with an optional open end.
type ValidityInterval struct {
	From  time.Time  `json:"from"`
	Until *time.Time `json:"until,omitempty"`
}

// Overlaps reports whether the interval intersects [start, end].
// An open end extends indefinitely.
func (v ValidityInterval) Overlaps(start, end time.Time) bool {
	if v.From.After(end) {
		return false
	}
	return v.Until == nil || !v.Until.Before(start)
}

// ActiveOn reports whether the interval overlaps the calendar day of day.
func (v ValidityInterval) ActiveOn(day time.Time) bool {
	return v.Overlaps(StartOfDay(day), EndOfDay(day))
}
