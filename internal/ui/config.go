package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tock/internal/config"
	"github.com/javiermolinar/tock/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  tock config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive(a.out, os.Stdin)
		},
	}
}

func runConfigInteractive(out io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(out, reader, cfg)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

// editConfig prompts for every editable setting. Empty input keeps the current value.
func editConfig(out io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Tracking.StepMinutes = promptInt(out, reader, "Step (minutes)", cfg.Tracking.StepMinutes)
	cfg.Tracking.BlockMinutes = promptInt(out, reader, "New block length (minutes)", cfg.Tracking.BlockMinutes)
	cfg.Tracking.RoundMinutes = promptInt(out, reader, "Round new blocks to (minutes)", cfg.Tracking.RoundMinutes)
	cfg.Tracking.PageSize = promptInt(out, reader, "Blocks per day", cfg.Tracking.PageSize)
	cfg.Storage.DBPath = promptValue(out, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(out, reader, cfg.UI.Theme)
	cfg.Log.Level = promptValue(out, reader, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.Log.Format = promptValue(out, reader, "Log format (text, json)", cfg.Log.Format)
	cfg.Log.File = promptValue(out, reader, "Log file (empty for stderr)", cfg.Log.File)
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[tracking]")
	fmt.Fprintf(out, "  step_minutes  = %d\n", cfg.Tracking.StepMinutes)
	fmt.Fprintf(out, "  block_minutes = %d\n", cfg.Tracking.BlockMinutes)
	fmt.Fprintf(out, "  round_minutes = %d\n", cfg.Tracking.RoundMinutes)
	fmt.Fprintf(out, "  page_size     = %d\n", cfg.Tracking.PageSize)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path       = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme         = %s\n", cfg.UI.Theme)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level         = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format        = %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Fprintf(out, "  file          = %s\n", cfg.Log.File)
	}
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q.\n", value)
		// Stop re-prompting when the input is exhausted.
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptTheme(out io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(out, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
