package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date    string
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the blocks of a day",
		Long: `List all blocks logged on a day, with chain markers and a summary.

Blocks that touch are joined by ┌ │ └ in the left gutter.`,
		Example: `  tock list
  tock list --date=yesterday
  tock list --date=2025-01-15 --copy`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			q, err := a.dayQuery(date)
			if err != nil {
				return err
			}

			seq, err := a.repo.ListBlocks(context.Background(), q)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			loc := a.now().Location()
			fmt.Fprint(a.out, RenderDay(q.From, seq, PrintOpts{
				Styled:   !color.NoColor,
				Width:    termWidth(),
				Location: loc,
			}))

			if copyOut {
				plain := RenderDay(q.From, seq, PrintOpts{Location: loc})
				if err := clipboard.WriteAll(plain); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(a.out, formatMuted("Copied to clipboard."))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (YYYY-MM-DD, today, yesterday, tomorrow)")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the plain listing to the clipboard")

	return cmd
}
