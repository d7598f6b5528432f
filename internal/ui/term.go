package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Completed blocks: green
	colorDone = color.New(color.FgGreen)

	// Chain markers: cyan
	colorChain = color.New(color.FgCyan)

	// Changed values in shift output: bold yellow
	colorChanged = color.New(color.FgYellow, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatDone(s string) string {
	return colorDone.Sprint(s)
}

func formatChain(s string) string {
	return colorChain.Sprint(s)
}

func formatChanged(s string) string {
	return colorChanged.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
