package dateutil

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2025, 1, 15, 14, 37, 0, 0, time.UTC) // Wednesday

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr error
	}{
		{"empty is today", "", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil},
		{"today", "today", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil},
		{"case insensitive", "  ToDay ", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil},
		{"yesterday", "yesterday", time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC), nil},
		{"tomorrow", "tomorrow", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), nil},
		{"absolute past", "2024-12-31", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil},
		{"absolute future", "2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), nil},
		{"wrong order", "01-15-2025", time.Time{}, ErrInvalidDateFormat},
		{"weekday not supported", "monday", time.Time{}, ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDay_UsesLocation(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)
	got, err := ParseDay("2025-01-15", now.In(zone))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != zone {
		t.Errorf("location = %v, want %v", got.Location(), zone)
	}
}

func TestDayQuery(t *testing.T) {
	q, err := DayQuery("tomorrow", now, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.From.Equal(time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("From = %v", q.From)
	}
	if !q.To.Equal(time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("To = %v", q.To)
	}
	if q.Limit != 50 {
		t.Errorf("Limit = %d, want 50", q.Limit)
	}

	if _, err := DayQuery("soon", now, 50); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestShiftDay(t *testing.T) {
	q, _ := DayQuery("", now, 10)

	next := ShiftDay(q, 1)
	if !next.From.Equal(q.To) {
		t.Errorf("next From = %v, want %v", next.From, q.To)
	}
	prev := ShiftDay(q, -1)
	if !prev.To.Equal(q.From) {
		t.Errorf("prev To = %v, want %v", prev.To, q.From)
	}
	if prev.Limit != 10 {
		t.Errorf("Limit = %d, want 10", prev.Limit)
	}
}

func TestIsToday(t *testing.T) {
	if !IsToday(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), now) {
		t.Error("midnight should be today")
	}
	if IsToday(time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), now) {
		t.Error("next midnight should not be today")
	}
}
