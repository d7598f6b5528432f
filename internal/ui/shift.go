package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/logging"
	"github.com/javiermolinar/tock/internal/session"
)

func (a *App) shiftCmd() *cobra.Command {
	var (
		by   time.Duration
		date string
	)

	cmd := &cobra.Command{
		Use:   "shift [id]",
		Short: "Grow or shrink a block, moving its chain",
		Long: `Change a block's end time. Blocks that follow it without a gap move
by the same amount so the chain stays intact.

Example:
  tock shift 12 --by=5m
  tock shift 12 --by=-10m --date=yesterday`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if by == 0 {
				return errors.New("--by must be non-zero")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			q, err := a.shiftQuery(ctx, id, date)
			if err != nil {
				return err
			}

			flushed, err := a.shift(ctx, q, id, by)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Shifted block #%d by %s (%d changes):\n", id, by, len(flushed))
			fmt.Fprint(a.out, RenderMutations(flushed, a.now().Location(), true))
			return nil
		},
	}

	cmd.Flags().DurationVar(&by, "by", 0, "Amount to move the end by, e.g. 5m or -10m")
	cmd.Flags().StringVar(&date, "date", "", "Day holding the block (default: the block's own day)")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

// shiftQuery returns the day list holding the block.
func (a *App) shiftQuery(ctx context.Context, id int64, date string) (block.Query, error) {
	if date != "" {
		return a.dayQuery(date)
	}
	b, err := a.repo.GetBlock(ctx, id)
	if err != nil {
		return block.Query{}, err
	}
	return block.Day(b.StartedAt.In(a.now().Location()), a.config.Tracking.PageSize), nil
}

// shift runs a one-shot edit session and returns the mutations it flushed.
func (a *App) shift(ctx context.Context, q block.Query, id int64, by time.Duration) ([]block.Mutation, error) {
	s := session.New(a.repo, q,
		session.WithStep(a.config.Step()),
		session.WithLogger(logging.Component("session")),
	)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	if err := s.EnterEdit(); err != nil {
		return nil, err
	}
	if err := s.Adjust(id, by); err != nil {
		s.Cancel()
		return nil, err
	}

	pending := s.Pending()
	if err := s.Commit(ctx); err != nil {
		var flushErr *session.FlushError
		if errors.As(err, &flushErr) {
			return pending[:flushErr.Index], err
		}
		return pending, err
	}
	return pending, nil
}
