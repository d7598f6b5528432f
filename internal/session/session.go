// Package session buffers edits to a day of blocks and commits or discards
// them as one batch.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/chain"
	"github.com/javiermolinar/tock/internal/selection"
)

// Session errors.
var (
	ErrNotEditing     = errors.New("not in edit mode")
	ErrAlreadyEditing = errors.New("already in edit mode")
	ErrEmptySequence  = errors.New("no blocks loaded")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrStaleSequence  = errors.New("blocks changed in storage; reload before editing")
)

const (
	defaultStep       = 5 * time.Minute
	defaultMaxHistory = 50
)

// State is the edit state of a session.
type State int

const (
	Viewing State = iota // working copy mirrors the last fetched list
	Editing              // working copy may diverge; mutations accumulate
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is the persistence collaborator of a session.
type Store interface {
	ListBlocks(ctx context.Context, q block.Query) ([]block.Block, error)
	UpdateBlock(ctx context.Context, id int64, p block.Patch) (block.Block, error)
}

// historyEntry is the state before one undo-able action.
type historyEntry struct {
	description string
	blocks      []block.Block
	pending     int
	selection   *selection.Tracker
}

// Session owns the working copy of a block sequence and the mutations that
// will persist it. It is not safe for concurrent use.
type Session struct {
	store      Store
	query      block.Query
	step       time.Duration
	logger     *slog.Logger
	invalidate func(block.Query)

	// Saved state (last successful fetch)
	fetched []block.Block
	// stale is set when a failed flush wrote part of the queue, so fetched
	// no longer matches storage.
	stale bool

	// Working state (edit mode only)
	state   State
	working []block.Block
	pending []block.Mutation
	tracker *selection.Tracker

	history    []historyEntry
	maxHistory int
}

// Option configures a Session.
type Option func(*Session)

// WithStep sets the delta used by Grow and Shrink.
func WithStep(step time.Duration) Option {
	return func(s *Session) {
		if step > 0 {
			s.step = step
		}
	}
}

// WithLogger sets the logger used for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInvalidate registers a hook called with the session query whenever a
// flush wrote to the store, before the list is re-fetched.
func WithInvalidate(fn func(block.Query)) Option {
	return func(s *Session) {
		s.invalidate = fn
	}
}

// New creates a session over the blocks selected by q.
func New(store Store, q block.Query, opts ...Option) *Session {
	s := &Session{
		store:      store,
		query:      q,
		step:       defaultStep,
		logger:     slog.Default(),
		tracker:    selection.New(),
		maxHistory: defaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query returns the list query the session loads.
func (s *Session) Query() block.Query {
	return s.query
}

// SetQuery changes the list query. Only allowed while viewing.
func (s *Session) SetQuery(q block.Query) error {
	if s.state == Editing {
		return ErrAlreadyEditing
	}
	s.query = q
	return nil
}

// Step returns the Grow/Shrink delta.
func (s *Session) Step() time.Duration {
	return s.step
}

// Load fetches the blocks for the session query.
// While editing, only the saved state is refreshed; the working copy is kept.
func (s *Session) Load(ctx context.Context) error {
	blocks, err := s.store.ListBlocks(ctx, s.query)
	if err != nil {
		return fmt.Errorf("listing blocks: %w", err)
	}
	s.fetched = blocks
	s.stale = false
	return nil
}

// SetFetched sets the last fetched sequence directly.
func (s *Session) SetFetched(blocks []block.Block) {
	s.fetched = block.Clone(blocks)
	s.stale = false
}

// Stale reports whether the fetched list predates writes from a partially
// applied commit. Load clears it.
func (s *Session) Stale() bool {
	return s.stale
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// IsEditing returns true if an edit is in progress.
func (s *Session) IsEditing() bool {
	return s.state == Editing
}

// Blocks returns a copy of the working copy while editing, or of the last
// fetched list otherwise.
func (s *Session) Blocks() []block.Block {
	if s.state == Editing {
		return block.Clone(s.working)
	}
	return block.Clone(s.fetched)
}

// Fetched returns a copy of the last fetched list.
func (s *Session) Fetched() []block.Block {
	return block.Clone(s.fetched)
}

// Entries returns the current blocks with their selection ranks.
func (s *Session) Entries() []selection.Entry {
	return s.tracker.Decorate(s.Blocks())
}

// Rank returns the selection rank of a block.
func (s *Session) Rank(id int64) (int, bool) {
	return s.tracker.Rank(id)
}

// Selected returns the selected block IDs in selection order.
func (s *Session) Selected() []int64 {
	return s.tracker.Order()
}

// Pending returns a copy of the queued mutations in issuance order.
func (s *Session) Pending() []block.Mutation {
	if len(s.pending) == 0 {
		return nil
	}
	out := make([]block.Mutation, len(s.pending))
	copy(out, s.pending)
	return out
}

// HasChanges returns true if there are mutations waiting to be committed.
func (s *Session) HasChanges() bool {
	return len(s.pending) > 0
}

// EnterEdit starts an edit session from the last fetched list.
func (s *Session) EnterEdit() error {
	if s.state == Editing {
		return ErrAlreadyEditing
	}
	if s.stale {
		return ErrStaleSequence
	}
	if len(s.fetched) == 0 {
		return ErrEmptySequence
	}
	s.state = Editing
	s.working = block.Clone(s.fetched)
	s.pending = nil
	s.tracker.Reset()
	s.history = nil
	s.logger.Debug("edit started", "blocks", len(s.working))
	return nil
}

// Adjust changes a block's end by delta, shifting its contiguous run.
func (s *Session) Adjust(id int64, delta time.Duration) error {
	if s.state != Editing {
		return ErrNotEditing
	}

	working, mutations, err := chain.Adjust(s.working, id, delta)
	if err != nil {
		return err
	}
	if len(mutations) == 0 {
		return nil
	}

	s.pushHistory(fmt.Sprintf("Adjust #%d by %s", id, delta))
	s.working = working
	s.pending = append(s.pending, mutations...)
	s.logger.Debug("block adjusted", "id", id, "delta", delta.String(), "mutations", len(mutations))
	return nil
}

// Grow extends a block by one step.
func (s *Session) Grow(id int64) error {
	return s.Adjust(id, s.step)
}

// Shrink reduces a block by one step.
func (s *Session) Shrink(id int64) error {
	return s.Adjust(id, -s.step)
}

// ToggleSelect selects or deselects a block for a planned reorder.
// Selection is never persisted.
func (s *Session) ToggleSelect(id int64) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	before := s.tracker.Clone()
	if err := s.tracker.Toggle(s.working, id); err != nil {
		return err
	}
	s.pushEntry(historyEntry{
		description: fmt.Sprintf("Select #%d", id),
		blocks:      s.working,
		pending:     len(s.pending),
		selection:   before,
	})
	return nil
}

// ToggleComplete flips the completion flag of a block in the working copy.
func (s *Session) ToggleComplete(id int64) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	idx := block.IndexOf(s.working, id)
	if idx < 0 {
		return fmt.Errorf("completing #%d: %w", id, block.ErrBlockNotFound)
	}

	s.pushHistory(fmt.Sprintf("Complete #%d", id))
	working := block.Clone(s.working)
	working[idx].IsComplete = !working[idx].IsComplete
	s.working = working
	s.pending = append(s.pending, block.SetComplete(id, working[idx].IsComplete))
	return nil
}

// CanUndo returns true if there are actions to undo.
func (s *Session) CanUndo() bool {
	return s.state == Editing && len(s.history) > 0
}

// UndoCount returns the number of actions that can be undone.
func (s *Session) UndoCount() int {
	return len(s.history)
}

// Undo reverts the last action, dropping the mutations it queued.
func (s *Session) Undo() error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}

	entry := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	s.working = entry.blocks
	s.pending = s.pending[:entry.pending]
	s.tracker = entry.selection
	s.logger.Debug("undo", "action", entry.description)
	return nil
}

// pushHistory saves the current state before a modification. The working
// slice is replaced, never mutated in place, so keeping a reference is safe.
func (s *Session) pushHistory(description string) {
	s.pushEntry(historyEntry{
		description: description,
		blocks:      s.working,
		pending:     len(s.pending),
		selection:   s.tracker.Clone(),
	})
}

func (s *Session) pushEntry(entry historyEntry) {
	if len(s.history) >= s.maxHistory {
		s.history = s.history[1:]
	}
	s.history = append(s.history, entry)
}

// Cancel discards the working copy and every queued mutation.
// Storage is never contacted.
func (s *Session) Cancel() {
	if s.state == Editing {
		s.logger.Debug("edit cancelled", "discarded", len(s.pending))
	}
	s.reset()
}

func (s *Session) reset() {
	s.state = Viewing
	s.working = nil
	s.pending = nil
	s.history = nil
	s.tracker.Reset()
}
