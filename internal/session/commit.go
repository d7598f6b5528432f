package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/tock/internal/block"
)

// ErrPersistence is matched by every flush failure.
var ErrPersistence = errors.New("persisting changes")

// FlushError reports the mutation that could not be written.
// Mutations before Index were applied; Mutation and everything after it
// are still queued.
type FlushError struct {
	Index    int
	Mutation block.Mutation
	Err      error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("%v: mutation %d (%s): %v", ErrPersistence, e.Index, e.Mutation, e.Err)
}

func (e *FlushError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Commit writes the queued mutations to the store one at a time, in the
// order they were recorded, then leaves edit mode and re-fetches the list.
//
// The first failed write stops the flush. The session stays in edit mode
// with only the unwritten mutations queued, so Commit can be retried or the
// edit cancelled. Writes that already succeeded are not rolled back; the
// session is marked Stale until the list is loaded again.
func (s *Session) Commit(ctx context.Context) error {
	if s.state != Editing {
		return ErrNotEditing
	}

	total := len(s.pending)
	for i, m := range s.pending {
		if err := ctx.Err(); err != nil {
			return s.flushFailed(i, total, m, err)
		}
		if _, err := s.store.UpdateBlock(ctx, m.ID, m.Patch); err != nil {
			return s.flushFailed(i, total, m, err)
		}
	}

	s.logger.Info("changes committed", "mutations", total)
	s.reset()

	if total == 0 {
		return nil
	}
	if s.invalidate != nil {
		s.invalidate(s.query)
	}
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("refreshing after commit: %w", err)
	}
	return nil
}

// flushFailed drops the mutations that were written and reports the failure.
// Once any write has landed the fetched list is out of date until the next Load.
func (s *Session) flushFailed(i, total int, m block.Mutation, err error) error {
	s.pending = s.pending[i:]
	// Undo entries point at positions in the old queue.
	s.history = nil
	if i > 0 {
		s.stale = true
		if s.invalidate != nil {
			s.invalidate(s.query)
		}
	}
	s.logger.Error("commit failed",
		"applied", i,
		"remaining", total-i,
		"mutation", m.String(),
		"error", err,
	)
	return &FlushError{Index: i, Mutation: m, Err: err}
}
