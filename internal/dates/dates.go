// Package dates provides the calendar-day helpers the streak and entry
// logic key on. Days are plain YYYY-MM-DD strings in local time, the same
// shape the posts persist.
package dates

import (
	"fmt"
	"time"
)

// DayLayout is the canonical day-key format.
const DayLayout = "2006-01-02"

// Day returns the day key for the given instant in its own location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// Today returns the current day key in local time.
func Today() string {
	return Day(time.Now())
}

// ParseDay parses a YYYY-MM-DD day key.
func ParseDay(key string) (time.Time, error) {
	t, err := time.Parse(DayLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// DayDiff returns the number of whole calendar days from a to b.
// Negative when b is earlier than a.
func DayDiff(a, b string) (int, error) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// PrevDay returns the day key one calendar day before key.
func PrevDay(key string) (string, error) {
	t, err := ParseDay(key)
	if err != nil {
		return "", err
	}
	return Day(t.AddDate(0, 0, -1)), nil
}

// Greeting returns a time-of-day greeting for the given instant.
func Greeting(t time.Time) string {
	switch hour := t.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
