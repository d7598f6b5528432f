// Package block defines the core domain types for tock.
package block

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrEndBeforeStart   = errors.New("end time must be after start time")
)

// Domain errors.
var (
	// ErrInvariantViolation is wrapped by every error raised when an edit
	// would break the ordering or duration rules of a sequence.
	ErrInvariantViolation = errors.New("invariant violation")
	ErrBlockNotFound      = fmt.Errorf("%w: block not found", ErrInvariantViolation)
)

// Block is a single logged activity: a closed time interval with metadata.
type Block struct {
	ID          int64
	Description string
	StartedAt   time.Time
	EndedAt     time.Time
	IsComplete  bool
	CreatedAt   time.Time
}

// New creates a new Block with validation.
// The description is trimmed and must not be empty; end must be after start.
func New(description string, start, end time.Time) (*Block, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}

	return &Block{
		Description: description,
		StartedAt:   start,
		EndedAt:     end,
		CreatedAt:   time.Now(),
	}, nil
}

// Duration returns the length of the block.
func (b Block) Duration() time.Duration {
	return b.EndedAt.Sub(b.StartedAt)
}

// Touches reports whether next starts exactly when b ends.
func (b Block) Touches(next Block) bool {
	return b.EndedAt.Equal(next.StartedAt)
}

// Equal reports structural equality. Timestamps are compared as instants.
func (b Block) Equal(other Block) bool {
	return b.ID == other.ID &&
		b.Description == other.Description &&
		b.StartedAt.Equal(other.StartedAt) &&
		b.EndedAt.Equal(other.EndedAt) &&
		b.IsComplete == other.IsComplete &&
		b.CreatedAt.Equal(other.CreatedAt)
}

// Clone returns a copy of seq that can be modified without touching seq.
func Clone(seq []Block) []Block {
	if seq == nil {
		return nil
	}
	out := make([]Block, len(seq))
	copy(out, seq)
	return out
}

// IndexOf returns the position of the block with the given ID, or -1.
func IndexOf(seq []Block, id int64) int {
	for i := range seq {
		if seq[i].ID == id {
			return i
		}
	}
	return -1
}

// Query describes which blocks to list: a [From, To) window on StartedAt
// and a page window. Results are always ordered by StartedAt ascending.
type Query struct {
	From   time.Time
	To     time.Time
	Offset int
	Limit  int // 0 means no limit
}

// Day returns a query covering the calendar day of t in t's location.
func Day(t time.Time, limit int) Query {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Query{
		From:  start,
		To:    start.AddDate(0, 0, 1),
		Limit: limit,
	}
}
