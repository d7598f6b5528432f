package block

import (
	"fmt"
	"strings"
	"time"
)

// Patch is a partial update to a block. Nil fields are left unchanged.
type Patch struct {
	StartedAt  *time.Time
	EndedAt    *time.Time
	IsComplete *bool
}

// IsEmpty returns true if the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.StartedAt == nil && p.EndedAt == nil && p.IsComplete == nil
}

// Apply returns b with the patch fields applied.
func (p Patch) Apply(b Block) Block {
	if p.StartedAt != nil {
		b.StartedAt = *p.StartedAt
	}
	if p.EndedAt != nil {
		b.EndedAt = *p.EndedAt
	}
	if p.IsComplete != nil {
		b.IsComplete = *p.IsComplete
	}
	return b
}

// String formats the patch for logs, e.g. "started_at=09:35 ended_at=10:05".
func (p Patch) String() string {
	var parts []string
	if p.StartedAt != nil {
		parts = append(parts, "started_at="+p.StartedAt.Format("15:04"))
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at="+p.EndedAt.Format("15:04"))
	}
	if p.IsComplete != nil {
		parts = append(parts, fmt.Sprintf("is_complete=%t", *p.IsComplete))
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " ")
}

// Mutation is a deferred update of a single block.
type Mutation struct {
	ID    int64
	Patch Patch
}

func (m Mutation) String() string {
	return fmt.Sprintf("#%d %s", m.ID, m.Patch)
}

// SetEnd returns a mutation that moves the end of a block.
func SetEnd(id int64, end time.Time) Mutation {
	return Mutation{ID: id, Patch: Patch{EndedAt: &end}}
}

// SetTimes returns a mutation that moves both ends of a block.
func SetTimes(id int64, start, end time.Time) Mutation {
	return Mutation{ID: id, Patch: Patch{StartedAt: &start, EndedAt: &end}}
}

// SetComplete returns a mutation that changes the completion flag.
func SetComplete(id int64, complete bool) Mutation {
	return Mutation{ID: id, Patch: Patch{IsComplete: &complete}}
}
