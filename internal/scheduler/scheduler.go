// Package scheduler places new blocks on the timeline.
package scheduler

import (
	"time"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/dateutil"
)

// Scheduler decides where a newly logged block goes.
type Scheduler struct {
	length   time.Duration
	rounding time.Duration
}

// New creates a Scheduler producing blocks of the given length whose
// start is rounded to the rounding boundary.
func New(length, rounding time.Duration) *Scheduler {
	if rounding <= 0 {
		rounding = time.Minute
	}
	return &Scheduler{length: length, rounding: rounding}
}

// Slot is a proposed interval for a new block.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Next returns the slot for a block created at now after the blocks in
// seq (ordered by start). A new block continues the last block when that
// block is still running, so it joins its chain. Otherwise it starts at
// now rounded to the nearest boundary.
func (s *Scheduler) Next(seq []block.Block, now time.Time) Slot {
	start := roundToNearest(now, s.rounding)
	if n := len(seq); n > 0 && seq[n-1].EndedAt.After(now) {
		start = seq[n-1].EndedAt
	}
	return Slot{Start: start, End: start.Add(s.length)}
}

// Block builds the block for description in the next slot.
func (s *Scheduler) Block(description string, seq []block.Block, now time.Time) (*block.Block, error) {
	slot := s.Next(seq, now)
	return block.New(description, slot.Start, slot.End)
}

// ReferenceTime returns the time a block created now should be placed
// against on day: now itself for today, otherwise the same clock time on day.
func ReferenceTime(day, now time.Time) time.Time {
	if dateutil.IsToday(day, now) {
		return now
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, day.Location())
}

// roundToNearest rounds t to the nearest multiple of d in t's location.
// Halfway values round up.
func roundToNearest(t time.Time, d time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	since := t.Sub(midnight)
	rounded := (since + d/2) / d * d
	return midnight.Add(rounded)
}
