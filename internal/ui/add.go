package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/scheduler"
)

func (a *App) addCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add [description]",
		Short: "Log a new block",
		Long: `Log a new block of work.

The block continues the last block of the day when that block is still
running, otherwise it starts now rounded to the configured boundary.

Example:
  tock add "Write documentation"
  tock add "Standup" --date=tomorrow`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			q, err := a.dayQuery(date)
			if err != nil {
				return err
			}

			ctx := context.Background()
			seq, err := a.repo.ListBlocks(ctx, q)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			s := scheduler.New(a.config.BlockLength(), a.config.Rounding())
			b, err := s.Block(strings.Join(args, " "), seq, scheduler.ReferenceTime(q.From, a.now()))
			if err != nil {
				return err
			}

			if err := a.repo.CreateBlock(ctx, b); err != nil {
				return fmt.Errorf("creating block: %w", err)
			}
			a.logger.Info("block created", "id", b.ID, "start", b.StartedAt, "end", b.EndedAt)

			fmt.Fprintf(a.out, "Created block #%d: %s %s %s\n",
				b.ID,
				b.Description,
				b.StartedAt.In(a.now().Location()).Format(dateutil.DateLayout),
				FormatRange(*b, a.now().Location()),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to log on (YYYY-MM-DD, today, yesterday, tomorrow)")

	return cmd
}
