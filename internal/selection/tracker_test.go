package selection

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/javiermolinar/tock/internal/block"
)

func testSeq(n int) []block.Block {
	seq := make([]block.Block, n)
	for i := range seq {
		seq[i] = block.Block{ID: int64(i + 1)}
	}
	return seq
}

// assertDense checks that ranks are exactly 1..Len() with no duplicates.
func assertDense(t *testing.T, tr *Tracker) {
	t.Helper()
	seen := make(map[int]bool)
	for _, r := range tr.ranks {
		if r < 1 || r > tr.Len() {
			t.Fatalf("rank %d outside 1..%d: %v", r, tr.Len(), tr.ranks)
		}
		if seen[r] {
			t.Fatalf("duplicate rank %d: %v", r, tr.ranks)
		}
		seen[r] = true
	}
}

func TestToggle_SelectAssignsNextRank(t *testing.T) {
	seq := testSeq(3)
	tr := New()

	for _, id := range []int64{3, 1, 2} {
		if err := tr.Toggle(seq, id); err != nil {
			t.Fatalf("Toggle(%d) failed: %v", id, err)
		}
	}

	want := map[int64]int{3: 1, 1: 2, 2: 3}
	for id, rank := range want {
		got, ok := tr.Rank(id)
		if !ok || got != rank {
			t.Errorf("Rank(%d) = %d, %v; want %d", id, got, ok, rank)
		}
	}
}

func TestToggle_DeselectMiddleKeepsRanksDense(t *testing.T) {
	seq := testSeq(4)
	tr := New()
	for _, id := range []int64{1, 2, 3, 4} {
		_ = tr.Toggle(seq, id)
	}

	if err := tr.Toggle(seq, 2); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if _, ok := tr.Rank(2); ok {
		t.Error("block 2 should be deselected")
	}
	want := map[int64]int{1: 1, 3: 2, 4: 3}
	for id, rank := range want {
		if got, _ := tr.Rank(id); got != rank {
			t.Errorf("Rank(%d) = %d, want %d", id, got, rank)
		}
	}
	assertDense(t, tr)
}

func TestToggle_UnknownID(t *testing.T) {
	tr := New()
	err := tr.Toggle(testSeq(2), 99)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
	if tr.Len() != 0 {
		t.Error("failed toggle should not change state")
	}
}

func TestToggle_RandomSequenceStaysDense(t *testing.T) {
	seq := testSeq(8)
	tr := New()
	rng := rand.New(rand.NewSource(7))

	for range 500 {
		id := seq[rng.Intn(len(seq))].ID
		if err := tr.Toggle(seq, id); err != nil {
			t.Fatalf("Toggle(%d) failed: %v", id, err)
		}
		assertDense(t, tr)
	}
}

func TestOrderAndDecorate(t *testing.T) {
	seq := testSeq(3)
	tr := New()
	_ = tr.Toggle(seq, 3)
	_ = tr.Toggle(seq, 1)

	order := tr.Order()
	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("Order() = %v, want [3 1]", order)
	}

	entries := tr.Decorate(seq)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Rank != 2 || entries[1].Selected() || entries[2].Rank != 1 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestReset(t *testing.T) {
	seq := testSeq(2)
	tr := New()
	_ = tr.Toggle(seq, 1)
	tr.Reset()

	if tr.Len() != 0 {
		t.Error("Reset should clear selection")
	}
	if err := tr.Toggle(seq, 2); err != nil {
		t.Fatalf("Toggle after Reset failed: %v", err)
	}
	if r, _ := tr.Rank(2); r != 1 {
		t.Errorf("first selection after Reset should get rank 1, got %d", r)
	}
}
