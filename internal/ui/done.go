package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tock/internal/block"
)

func (a *App) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a block's completion",
		Long: `Mark a block as done, or reopen it if it is already done.

Example:
  tock done 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			b, err := a.repo.GetBlock(ctx, id)
			if err != nil {
				return err
			}

			m := block.SetComplete(id, !b.IsComplete)
			updated, err := a.repo.UpdateBlock(ctx, m.ID, m.Patch)
			if err != nil {
				return fmt.Errorf("updating block: %w", err)
			}
			a.logger.Info("completion toggled", "id", id, "complete", updated.IsComplete)

			state := "reopened"
			if updated.IsComplete {
				state = formatDone("done")
			}
			fmt.Fprintf(a.out, "Block #%d %s: %s\n", updated.ID, state, updated.Description)
			return nil
		},
	}
}

// parseID parses a positive block ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid block id %q", s)
	}
	return id, nil
}
