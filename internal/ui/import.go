package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/db"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import blocks from another database",
		Long: `Import all blocks from another tock database into the current one.

The import runs in a single transaction: either every block is copied
or none is.

Example:
  tock import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}

			count, err := importBlocks(context.Background(), a.repo, sourcePath)
			if err != nil {
				return err
			}
			a.logger.Info("blocks imported", "count", count, "source", sourcePath)

			fmt.Fprintf(a.out, "Imported %d blocks from %s\n", count, sourcePath)
			return nil
		},
	}

	return cmd
}

// importBlocks copies every block of the database at sourcePath into dest.
// IDs are reassigned by dest; all other fields are kept.
func importBlocks(ctx context.Context, dest Repository, sourcePath string) (int, error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	blocks, err := sourceRepo.ListBlocks(ctx, block.Query{})
	if err != nil {
		return 0, fmt.Errorf("listing source blocks: %w", err)
	}

	batch := make([]*block.Block, 0, len(blocks))
	for _, b := range blocks {
		batch = append(batch, &block.Block{
			Description: b.Description,
			StartedAt:   b.StartedAt,
			EndedAt:     b.EndedAt,
			IsComplete:  b.IsComplete,
			CreatedAt:   b.CreatedAt,
		})
	}

	if err := dest.CreateBlocks(ctx, batch); err != nil {
		return 0, fmt.Errorf("importing blocks: %w", err)
	}

	return len(batch), nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
