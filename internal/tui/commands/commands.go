// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/scheduler"
)

// DayLoadedMsg is sent when a day's blocks are loaded.
type DayLoadedMsg struct {
	Query  block.Query
	Blocks []block.Block
}

// BlockUpdatedMsg is sent after a direct (non-session) update succeeds.
type BlockUpdatedMsg struct {
	Block block.Block
}

// BlockCreatedMsg is sent after a new block is stored.
type BlockCreatedMsg struct {
	Block *block.Block
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadDay loads the blocks selected by q.
func LoadDay(repo block.Repository, q block.Query) tea.Cmd {
	return func() tea.Msg {
		blocks, err := repo.ListBlocks(context.Background(), q)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading blocks: %w", err)}
		}
		return DayLoadedMsg{Query: q, Blocks: blocks}
	}
}

// ToggleComplete flips a block's completion flag in storage.
func ToggleComplete(repo block.Repository, b block.Block) tea.Cmd {
	return func() tea.Msg {
		m := block.SetComplete(b.ID, !b.IsComplete)
		updated, err := repo.UpdateBlock(context.Background(), m.ID, m.Patch)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("updating block #%d: %w", b.ID, err)}
		}
		return BlockUpdatedMsg{Block: updated}
	}
}

// CreateBlock schedules a new block after the blocks of q and stores it.
// The sequence is re-read so the slot reflects what is stored.
func CreateBlock(repo block.Repository, s *scheduler.Scheduler, description string, q block.Query, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		seq, err := repo.ListBlocks(ctx, q)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading blocks: %w", err)}
		}

		b, err := s.Block(description, seq, now)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := repo.CreateBlock(ctx, b); err != nil {
			return ErrMsg{Err: fmt.Errorf("creating block: %w", err)}
		}
		return BlockCreatedMsg{Block: b}
	}
}

// ClearStatusAfter clears the status message after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
