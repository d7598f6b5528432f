package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tock/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header
	TitleStyle     lipgloss.Style
	DateStyle      lipgloss.Style
	ModeViewStyle  lipgloss.Style
	ModeEditStyle  lipgloss.Style
	HeaderBarStyle lipgloss.Style

	// Rows
	RowStyle        lipgloss.Style
	RowCursorStyle  lipgloss.Style
	RowShiftedStyle lipgloss.Style
	ChainStyle      lipgloss.Style
	DoneStyle       lipgloss.Style
	PendingStyle    lipgloss.Style
	RankStyle       lipgloss.Style
	TimeStyle       lipgloss.Style
	DurationStyle   lipgloss.Style
	EmptyStateStyle lipgloss.Style
	ScrollHintStyle lipgloss.Style

	// Footer
	SummaryStyle lipgloss.Style
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style
	MutedStyle   lipgloss.Style

	// Prompt
	PromptStyle     lipgloss.Style
	PromptTextStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	return &Styles{
		palette: p,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		DateStyle: lipgloss.NewStyle().
			Foreground(p.Fg),
		ModeViewStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted).
			Padding(0, 1),
		ModeEditStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		HeaderBarStyle: lipgloss.NewStyle().
			Background(p.BgHighlight).
			Padding(0, 1),

		RowStyle: lipgloss.NewStyle().
			Foreground(p.Fg),
		RowCursorStyle: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.BgSelection),
		RowShiftedStyle: lipgloss.NewStyle().
			Foreground(p.TextOnShifted).
			Background(p.ShiftedBg),
		ChainStyle: lipgloss.NewStyle().
			Foreground(p.Chain),
		DoneStyle: lipgloss.NewStyle().
			Foreground(p.Done),
		PendingStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),
		RankStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnSelected).
			Background(p.Selected),
		TimeStyle: lipgloss.NewStyle().
			Foreground(p.Fg),
		DurationStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),
		EmptyStateStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted).
			Italic(true).
			Padding(1, 2),
		ScrollHintStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),

		SummaryStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),
		StatusStyle: lipgloss.NewStyle().
			Foreground(p.Shifted),
		ErrorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error),
		HelpStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),
		HelpKeyStyle: lipgloss.NewStyle().
			Foreground(p.Accent),
		MutedStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),

		PromptStyle: lipgloss.NewStyle().
			Foreground(p.Accent),
		PromptTextStyle: lipgloss.NewStyle().
			Foreground(p.Fg),
	}
}
