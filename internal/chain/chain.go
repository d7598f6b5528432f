// Package chain implements the contiguity adjuster: changing one block's
// duration and shifting the run of touching blocks that follows it.
package chain

import (
	"fmt"
	"time"

	"github.com/javiermolinar/tock/internal/block"
)

// ErrMinDuration is returned when an adjustment would leave a block with a
// zero or negative duration.
var ErrMinDuration = fmt.Errorf("%w: block cannot be shorter than the adjustment step", block.ErrInvariantViolation)

// walker carries the state of the forward walk: the original end of the
// previous block and the delta being propagated.
type walker struct {
	anchor time.Time
	delta  time.Duration
}

// step tests b against the anchor. If b is part of the chain it returns the
// shifted block, the walker anchored on b's original end, and true.
func (w walker) step(b block.Block) (block.Block, walker, bool) {
	if !w.anchor.Equal(b.StartedAt) {
		return b, w, false
	}
	next := walker{anchor: b.EndedAt, delta: w.delta}
	b.StartedAt = b.StartedAt.Add(w.delta)
	b.EndedAt = b.EndedAt.Add(w.delta)
	return b, next, true
}

// Adjust moves the end of the block with the given ID by delta and shifts
// every block of the contiguous run after it by the same delta.
//
// seq must be sorted by start time. The input slice is not modified: the
// result is a copy with the edits applied, plus the mutations that persist
// them in walk order. On error the copy equals seq and no mutations are
// returned.
func Adjust(seq []block.Block, id int64, delta time.Duration) ([]block.Block, []block.Mutation, error) {
	out := block.Clone(seq)

	idx := block.IndexOf(out, id)
	if idx < 0 {
		return out, nil, fmt.Errorf("adjusting #%d: %w", id, block.ErrBlockNotFound)
	}
	if delta == 0 {
		return out, nil, nil
	}

	target := out[idx]
	newEnd := target.EndedAt.Add(delta)
	if !newEnd.After(target.StartedAt) {
		return out, nil, fmt.Errorf("adjusting #%d by %s: %w", id, delta, ErrMinDuration)
	}

	w := walker{anchor: target.EndedAt, delta: delta}
	out[idx].EndedAt = newEnd
	mutations := []block.Mutation{block.SetEnd(target.ID, newEnd)}

	for i := idx + 1; i < len(out); i++ {
		shifted, next, ok := w.step(out[i])
		if !ok {
			break
		}
		out[i] = shifted
		w = next
		mutations = append(mutations, block.SetTimes(shifted.ID, shifted.StartedAt, shifted.EndedAt))
	}

	return out, mutations, nil
}

// Run returns the indexes of the contiguous run that follows position i,
// i.e. the blocks Adjust would shift when editing seq[i]. It does not
// include i itself.
func Run(seq []block.Block, i int) []int {
	if i < 0 || i >= len(seq) {
		return nil
	}
	var run []int
	w := walker{anchor: seq[i].EndedAt}
	for j := i + 1; j < len(seq); j++ {
		_, next, ok := w.step(seq[j])
		if !ok {
			break
		}
		run = append(run, j)
		w = next
	}
	return run
}

// Chains splits seq into maximal runs of touching blocks.
// Each run is returned as the indexes of its members.
func Chains(seq []block.Block) [][]int {
	var chains [][]int
	for i := 0; i < len(seq); {
		run := append([]int{i}, Run(seq, i)...)
		chains = append(chains, run)
		i = run[len(run)-1] + 1
	}
	return chains
}

// Role is a block's position inside its chain.
type Role int

const (
	Standalone Role = iota // chain of one
	Head
	Middle
	Tail
)

// Roles returns the chain role of every block in seq.
func Roles(seq []block.Block) []Role {
	roles := make([]Role, len(seq))
	for _, run := range Chains(seq) {
		if len(run) < 2 {
			continue
		}
		for j, i := range run {
			switch j {
			case 0:
				roles[i] = Head
			case len(run) - 1:
				roles[i] = Tail
			default:
				roles[i] = Middle
			}
		}
	}
	return roles
}

// Glyph returns the gutter glyph used to draw the role.
func (r Role) Glyph() string {
	switch r {
	case Head:
		return "┌"
	case Middle:
		return "│"
	case Tail:
		return "└"
	default:
		return " "
	}
}
