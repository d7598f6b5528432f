// Package selection tracks the ordered subset of blocks a user has picked
// for a planned reorder.
//
// Ranks are session-local: they are kept in a map owned by the tracker and
// never stored on the blocks themselves, so they cannot leak into storage.
package selection

import (
	"fmt"
	"sort"

	"github.com/javiermolinar/tock/internal/block"
)

// Tracker assigns dense selection ranks 1..k in selection order.
// The zero value is not usable; use New.
type Tracker struct {
	ranks map[int64]int
}

// Entry pairs a block with its selection rank (0 when unselected).
type Entry struct {
	block.Block
	Rank int
}

// Selected returns true if the entry has a rank.
func (e Entry) Selected() bool {
	return e.Rank > 0
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{ranks: make(map[int64]int)}
}

// Toggle selects or deselects the block with the given ID.
//
// An unselected block becomes the most recently selected (rank k+1).
// Deselecting a block with rank r clears it and moves every rank above r
// down by one, so ranks stay dense. id must be present in seq.
func (t *Tracker) Toggle(seq []block.Block, id int64) error {
	if block.IndexOf(seq, id) < 0 {
		return fmt.Errorf("selecting #%d: %w", id, block.ErrBlockNotFound)
	}

	r, ok := t.ranks[id]
	if !ok {
		t.ranks[id] = len(t.ranks) + 1
		return nil
	}

	delete(t.ranks, id)
	for other, rank := range t.ranks {
		if rank > r {
			t.ranks[other] = rank - 1
		}
	}
	return nil
}

// Rank returns the rank of a block and whether it is selected.
func (t *Tracker) Rank(id int64) (int, bool) {
	r, ok := t.ranks[id]
	return r, ok
}

// Len returns the number of selected blocks.
func (t *Tracker) Len() int {
	return len(t.ranks)
}

// Order returns the selected IDs sorted by rank.
func (t *Tracker) Order() []int64 {
	ids := make([]int64, 0, len(t.ranks))
	for id := range t.ranks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return t.ranks[ids[i]] < t.ranks[ids[j]]
	})
	return ids
}

// Decorate returns seq paired with the current ranks, in sequence order.
func (t *Tracker) Decorate(seq []block.Block) []Entry {
	entries := make([]Entry, len(seq))
	for i, b := range seq {
		entries[i] = Entry{Block: b, Rank: t.ranks[b.ID]}
	}
	return entries
}

// Clone returns an independent copy of the tracker.
func (t *Tracker) Clone() *Tracker {
	ranks := make(map[int64]int, len(t.ranks))
	for id, r := range t.ranks {
		ranks[id] = r
	}
	return &Tracker{ranks: ranks}
}

// Reset clears every selection.
func (t *Tracker) Reset() {
	t.ranks = make(map[int64]int)
}
