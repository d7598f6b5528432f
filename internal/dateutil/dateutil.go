// Package dateutil provides date parsing utilities for day-based views.
package dateutil

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/tock/internal/block"
)

// ErrInvalidDateFormat is returned for input that is neither a keyword nor YYYY-MM-DD.
var ErrInvalidDateFormat = errors.New("date must be YYYY-MM-DD, today, yesterday or tomorrow")

// DateLayout is the accepted absolute date format.
const DateLayout = "2006-01-02"

// ParseDay parses a day reference relative to now:
//   - Empty string or "today": the day of now
//   - "yesterday" and "tomorrow"
//   - Absolute date: "2025-01-15"
//
// Keywords are case-insensitive. The result is midnight in now's location.
func ParseDay(s string, now time.Time) (time.Time, error) {
	today := TruncateToDay(now)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	t, err := time.ParseInLocation(DateLayout, input, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// DayQuery parses s with ParseDay and returns the query for that day.
func DayQuery(s string, now time.Time, limit int) (block.Query, error) {
	day, err := ParseDay(s, now)
	if err != nil {
		return block.Query{}, err
	}
	return block.Day(day, limit), nil
}

// ShiftDay moves a day query by n days, keeping its page window size.
func ShiftDay(q block.Query, n int) block.Query {
	return block.Day(q.From.AddDate(0, 0, n), q.Limit)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsToday reports whether t falls on the same calendar day as now.
func IsToday(t, now time.Time) bool {
	return TruncateToDay(t.In(now.Location())).Equal(TruncateToDay(now))
}
