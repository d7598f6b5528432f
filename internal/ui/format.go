package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/chain"
	"github.com/javiermolinar/tock/internal/summary"
)

const (
	clockLayout = "15:04"
	// "  ┌ ✓ #1234  09:00-09:30  1h05m  " is 34 columns wide.
	rowOverhead  = 34
	minDescWidth = 20
)

// PrintOpts configures day listing output.
type PrintOpts struct {
	Styled   bool           // Apply terminal colors
	Width    int            // Total line width (0 = no truncation)
	Location *time.Location // Zone used for clock times
}

// descWidth returns the room left for descriptions.
func (o PrintOpts) descWidth() int {
	if o.Width <= 0 {
		return 0
	}
	if w := o.Width - rowOverhead; w > minDescWidth {
		return w
	}
	return minDescWidth
}

func (o PrintOpts) style(format func(string) string, s string) string {
	if !o.Styled {
		return s
	}
	return format(s)
}

// chainMarkers returns the gutter glyph of every block: ┌ │ └ inside a
// chain of two or more, a space for standalone blocks.
func chainMarkers(seq []block.Block) []string {
	roles := chain.Roles(seq)
	markers := make([]string, len(roles))
	for i, r := range roles {
		markers[i] = r.Glyph()
	}
	return markers
}

// statusSymbol returns the completion indicator for a block.
func statusSymbol(b block.Block) string {
	if b.IsComplete {
		return "✓"
	}
	return "○"
}

// FormatRange formats a block's interval as "09:00-09:30" in loc.
func FormatRange(b block.Block, loc *time.Location) string {
	return b.StartedAt.In(loc).Format(clockLayout) + "-" + b.EndedAt.In(loc).Format(clockLayout)
}

// RenderDay renders the listing for one day: a header, one row per block
// with chain markers, and the day summary.
func RenderDay(day time.Time, seq []block.Block, opts PrintOpts) string {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", opts.style(formatHeader, "=== "+day.Format("Monday 2006-01-02")+" ==="))

	if len(seq) == 0 {
		sb.WriteString(opts.style(formatMuted, "  No blocks logged.") + "\n")
		return sb.String()
	}

	markers := chainMarkers(seq)
	width := opts.descWidth()
	for i, b := range seq {
		desc := b.Description
		if width > 0 {
			desc = ansi.Truncate(desc, width, "…")
		}

		symbol := statusSymbol(b)
		if b.IsComplete {
			symbol = opts.style(formatDone, symbol)
		}

		fmt.Fprintf(&sb, "  %s %s #%-4d  %s  %5s  %s\n",
			opts.style(formatChain, markers[i]),
			symbol,
			b.ID,
			FormatRange(b, loc),
			opts.style(formatMuted, summary.FormatDuration(b.Duration())),
			desc,
		)
	}

	sb.WriteString("\n")
	sb.WriteString(opts.style(formatStats, summary.Summarize(seq).String()) + "\n")
	return sb.String()
}

// RenderMutations renders queued or flushed mutations, one per line, with
// clock times in loc.
func RenderMutations(mutations []block.Mutation, loc *time.Location, styled bool) string {
	opts := PrintOpts{Styled: styled}
	var sb strings.Builder
	for _, m := range mutations {
		var parts []string
		if m.Patch.StartedAt != nil {
			parts = append(parts, "start "+opts.style(formatChanged, m.Patch.StartedAt.In(loc).Format(clockLayout)))
		}
		if m.Patch.EndedAt != nil {
			parts = append(parts, "end "+opts.style(formatChanged, m.Patch.EndedAt.In(loc).Format(clockLayout)))
		}
		if m.Patch.IsComplete != nil {
			state := "open"
			if *m.Patch.IsComplete {
				state = "done"
			}
			parts = append(parts, "mark "+opts.style(formatChanged, state))
		}
		fmt.Fprintf(&sb, "  #%d %s\n", m.ID, strings.Join(parts, ", "))
	}
	return sb.String()
}
