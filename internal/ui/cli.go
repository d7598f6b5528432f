// Package ui implements the tock command line interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/config"
	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/db"
	"github.com/javiermolinar/tock/internal/logging"
	"github.com/javiermolinar/tock/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Repository is the storage the CLI needs: the block repository plus
// batch inserts for import and description edits.
type Repository interface {
	block.Repository
	CreateBlocks(ctx context.Context, blocks []*block.Block) error
	UpdateDescription(ctx context.Context, id int64, description string) error
}

// App holds the CLI application state.
type App struct {
	repo      Repository
	config    *config.Config
	root      *cobra.Command
	debug     bool // Enable debug logging
	out       io.Writer
	now       func() time.Time
	logCloser io.Closer
	logger    *slog.Logger
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened lazily from the configured database path.
func NewApp(repo Repository, cfg *config.Config) *App {
	a := &App{
		repo:   repo,
		config: cfg,
		out:    os.Stdout,
		now:    time.Now,
		logger: slog.Default(),
	}

	a.root = &cobra.Command{
		Use:   "tock",
		Short: "A time-block tracker for the terminal",
		Long: `Tock logs what you work on as time blocks.

Blocks that touch form a chain: growing or shrinking one block shifts
the blocks after it so the chain stays intact.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogging(cmd == a.root)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(a.repo, a.config)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.renameCmd())
	a.root.AddCommand(a.shiftCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "tock %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setupLogging installs the global logger. --debug overrides the configured level.
// The TUI owns the terminal, so it logs to a file next to the database
// unless a log file is configured.
func (a *App) setupLogging(interactive bool) error {
	if a.logCloser != nil {
		return nil
	}
	logCfg := a.config.Log
	if a.debug {
		logCfg.Level = "debug"
	}
	if interactive && logCfg.File == "" {
		logCfg.File = tuiLogFile(a.config.Storage.DBPath)
	}
	closer, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logCloser = closer
	a.logger = logging.Component("cli")
	return nil
}

func tuiLogFile(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "tock.log")
}

// ensureRepo opens the configured database if no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.logger.Debug("database opened", "path", path)
	a.repo = repo
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and the log file.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	if a.logCloser != nil {
		if cerr := a.logCloser.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// dayQuery resolves a --date flag into the day's list query.
func (a *App) dayQuery(date string) (block.Query, error) {
	return dateutil.DayQuery(date, a.now(), a.config.Tracking.PageSize)
}
