package domain

import (
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// DateOf drops the time of day, keeping the calendar date as seen in t's
// location. The result is midnight UTC so dates compare with Before/Equal.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// FormatDate renders a date as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Clock is a zero-padded 24-hour "HH:MM" time of day. The empty Clock means
// no cutoff is configured.
type Clock string

// ParseClock normalizes "H:MM", "HH:MM" or "HH:MM:SS" to "HH:MM".
// An empty input yields the empty Clock.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Format(ClockLayout)), nil
		}
	}
	return "", ErrInvalidClock
}

// ClockOf returns the time of day of t in its own location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Format(ClockLayout))
}

func (c Clock) IsSet() bool { return c != "" }

// Before compares two normalized clocks. Zero-padding makes string order
// equal to chronological order.
func (c Clock) Before(other Clock) bool { return c < other }

func (c Clock) String() string { return string(c) }
