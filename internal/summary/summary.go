// Package summary aggregates time statistics for a day of blocks.
package summary

import (
	"fmt"
	"time"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/chain"
)

// Day holds aggregated statistics for an ordered sequence of blocks.
type Day struct {
	Blocks         int
	CompletedCount int
	Chains         int
	Tracked        time.Duration // sum of block durations
	Completed      time.Duration // sum of completed block durations
	Gaps           time.Duration // untracked time between first start and last end
}

// Summarize computes the statistics for seq, which must be ordered by start.
func Summarize(seq []block.Block) Day {
	d := Day{
		Blocks: len(seq),
		Chains: len(chain.Chains(seq)),
	}

	for i, b := range seq {
		d.Tracked += b.Duration()
		if b.IsComplete {
			d.Completed += b.Duration()
			d.CompletedCount++
		}
		if i > 0 {
			if gap := b.StartedAt.Sub(seq[i-1].EndedAt); gap > 0 {
				d.Gaps += gap
			}
		}
	}

	return d
}

// CompletionRate returns the completed share of tracked time in [0, 1].
func (d Day) CompletionRate() float64 {
	if d.Tracked == 0 {
		return 0
	}
	return float64(d.Completed) / float64(d.Tracked)
}

// String renders a one-line summary.
func (d Day) String() string {
	if d.Blocks == 0 {
		return "no blocks"
	}
	return fmt.Sprintf("%d blocks, %s tracked, %d/%d done (%s), %d chains, %s gaps",
		d.Blocks,
		FormatDuration(d.Tracked),
		d.CompletedCount, d.Blocks,
		FormatDuration(d.Completed),
		d.Chains,
		FormatDuration(d.Gaps),
	)
}

// FormatDuration renders d as "1h05m", "45m" or "0m".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
