package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [id] [description]",
		Short: "Change a block's description",
		Long: `Replace the description of a block. Times and completion are kept.

Example:
  tock rename 12 "Review release notes"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			description := strings.Join(args[1:], " ")
			if err := a.repo.UpdateDescription(context.Background(), id, description); err != nil {
				return fmt.Errorf("renaming block #%d: %w", id, err)
			}
			a.logger.Info("block renamed", "id", id)

			fmt.Fprintf(a.out, "Block #%d renamed: %s\n", id, strings.TrimSpace(description))
			return nil
		},
	}
}
