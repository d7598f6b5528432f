// Package tui provides the terminal user interface for tock.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/config"
	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/logging"
	"github.com/javiermolinar/tock/internal/scheduler"
	"github.com/javiermolinar/tock/internal/session"
	"github.com/javiermolinar/tock/internal/tui/commands"
	"github.com/javiermolinar/tock/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeView   Mode = iota
	ModeEdit        // Changes are queued in the session until committed
	ModePrompt      // Typing the description of a new block
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "EDIT"
	case ModePrompt:
		return "NEW"
	default:
		return "VIEW"
	}
}

const statusDuration = 3 * time.Second

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo      block.Repository
	config    *config.Config
	session   *session.Session
	scheduler *scheduler.Scheduler
	cache     *dayCache
	logger    *slog.Logger
	now       func() time.Time

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Components
	keys   KeyMap
	help   help.Model
	prompt textinput.Model

	// State
	cursor    int // Index into the visible blocks
	offset    int // First visible row
	prompting bool
	loading   bool

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string    // Temporary status/error message
	statusErr   bool      // Render statusMsg as an error
	statusUntil time.Time // When to clear message
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock replaces the clock used to pick today and place new blocks.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model showing today's blocks.
func New(repo block.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	// Load theme from config
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 256
	ti.Width = 50
	ti.PromptStyle = styles.PromptStyle
	ti.TextStyle = styles.PromptTextStyle
	ti.PlaceholderStyle = styles.MutedStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.ShortSeparator = styles.HelpStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpStyle
	h.Styles.FullSeparator = styles.HelpStyle

	m := &Model{
		repo:      repo,
		config:    cfg,
		scheduler: scheduler.New(cfg.BlockLength(), cfg.Rounding()),
		cache:     newDayCache(),
		logger:    logging.Component("tui"),
		now:       time.Now,
		theme:     t,
		styles:    styles,
		keys:      DefaultKeyMap(),
		help:      h,
		prompt:    ti,
		loading:   true,
	}

	for _, opt := range opts {
		opt(m)
	}

	q := block.Day(dateutil.TruncateToDay(m.now()), cfg.Tracking.PageSize)
	m.session = session.New(repo, q,
		session.WithStep(cfg.Step()),
		session.WithLogger(logging.Component("session")),
		session.WithInvalidate(m.cache.invalidate),
	)

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadDay(m.repo, m.session.Query())
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	switch {
	case m.prompting:
		return ModePrompt
	case m.session.IsEditing():
		return ModeEdit
	default:
		return ModeView
	}
}

// Run starts the TUI.
func Run(repo block.Repository, cfg *config.Config) error {
	model := New(repo, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// currentBlock returns the block under the cursor.
func (m Model) currentBlock() (block.Block, bool) {
	blocks := m.session.Blocks()
	if m.cursor < 0 || m.cursor >= len(blocks) {
		return block.Block{}, false
	}
	return blocks[m.cursor], true
}

// clampCursor keeps the cursor inside the list and visible.
func (m *Model) clampCursor() {
	n := len(m.session.Blocks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// visibleRows returns how many block rows fit between header and footer.
func (m Model) visibleRows() int {
	if m.height == 0 {
		return 20
	}
	return max(1, m.height-headerLines-footerLines)
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusUntil = time.Now().Add(statusDuration)
	return commands.ClearStatusAfter(statusDuration)
}

func (m *Model) setError(err error) tea.Cmd {
	m.logger.Error("tui action failed", "error", err)
	m.statusMsg = err.Error()
	m.statusErr = true
	m.statusUntil = time.Now().Add(statusDuration)
	return commands.ClearStatusAfter(statusDuration)
}
