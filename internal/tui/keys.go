package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/scheduler"
	"github.com/javiermolinar/tock/internal/session"
	"github.com/javiermolinar/tock/internal/tui/commands"
)

// KeyMap holds every key binding of the TUI.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Edit     key.Binding
	Add      key.Binding
	NextDay  key.Binding
	PrevDay  key.Binding
	Today    key.Binding
	Help     key.Binding
	Quit     key.Binding

	Grow   key.Binding
	Shrink key.Binding
	Select key.Binding
	Undo   key.Binding
	Commit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Complete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		NextDay:  key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next day")),
		PrevDay:  key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Grow:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "grow")),
		Shrink: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shrink")),
		Select: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
	}
}

// modeHelp adapts the bindings of one mode to help.KeyMap.
type modeHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h modeHelp) ShortHelp() []key.Binding  { return h.short }
func (h modeHelp) FullHelp() [][]key.Binding { return h.full }

// helpFor returns the help bindings for a mode.
func (k KeyMap) helpFor(mode Mode) modeHelp {
	switch mode {
	case ModeEdit:
		return modeHelp{
			short: []key.Binding{k.Grow, k.Shrink, k.Select, k.Complete, k.Undo, k.Commit, k.Cancel},
			full: [][]key.Binding{
				{k.Up, k.Down},
				{k.Grow, k.Shrink, k.Select, k.Complete},
				{k.Undo, k.Commit, k.Cancel},
			},
		}
	case ModePrompt:
		return modeHelp{
			short: []key.Binding{
				key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
				key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
			},
		}
	default:
		return modeHelp{
			short: []key.Binding{k.Down, k.Up, k.Complete, k.Edit, k.Add, k.NextDay, k.PrevDay, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Up, k.Down},
				{k.Complete, k.Edit, k.Add},
				{k.NextDay, k.PrevDay, k.Today},
				{k.Help, k.Quit},
			},
		}
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key pressed", "key", msg.String(), "mode", m.Mode().String())

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Mode-specific handling
	switch m.Mode() {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeEdit:
		return m.handleEditKeys(msg)
	default:
		return m.handleViewKeys(msg)
	}
}

// handleViewKeys handles keys while browsing.
func (m Model) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Complete):
		b, ok := m.currentBlock()
		if !ok {
			return m, nil
		}
		return m, commands.ToggleComplete(m.repo, b)

	case key.Matches(msg, m.keys.Edit):
		if err := m.session.EnterEdit(); err != nil {
			return m, m.setError(err)
		}
		return m, m.setStatus("Editing: changes are saved on enter")

	case key.Matches(msg, m.keys.Add):
		m.prompting = true
		m.prompt.Reset()
		return m, m.prompt.Focus()

	case key.Matches(msg, m.keys.NextDay):
		return m.showDay(dateutil.ShiftDay(m.session.Query(), 1))
	case key.Matches(msg, m.keys.PrevDay):
		return m.showDay(dateutil.ShiftDay(m.session.Query(), -1))
	case key.Matches(msg, m.keys.Today):
		return m.showDay(m.todayQuery())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleEditKeys handles keys while an edit session is open.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		// Don't allow quit without confirming changes
		if m.session.HasChanges() {
			return m, m.setStatus("Unsaved changes! Press enter to save or esc to discard")
		}
		m.session.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Grow):
		return m.onCurrent(m.session.Grow)
	case key.Matches(msg, m.keys.Shrink):
		return m.onCurrent(m.session.Shrink)
	case key.Matches(msg, m.keys.Select):
		return m.onCurrent(m.session.ToggleSelect)
	case key.Matches(msg, m.keys.Complete):
		return m.onCurrent(m.session.ToggleComplete)

	case key.Matches(msg, m.keys.Undo):
		if err := m.session.Undo(); err != nil {
			return m, m.setError(err)
		}

	case key.Matches(msg, m.keys.Commit):
		return m.commit()

	case key.Matches(msg, m.keys.Cancel):
		m.session.Cancel()
		m.clampCursor()
		status := m.setStatus("Changes discarded")
		if m.session.Stale() {
			// Part of a failed commit was written; show what storage holds.
			m.loading = true
			return m, tea.Batch(commands.LoadDay(m.repo, m.session.Query()), status)
		}
		return m, status

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handlePromptKeys handles keys while typing a new block description.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		description := m.prompt.Value()
		m.prompting = false
		m.prompt.Blur()
		q := m.session.Query()
		return m, commands.CreateBlock(m.repo, m.scheduler, description, q, scheduler.ReferenceTime(q.From, m.now()))
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// onCurrent applies a session action to the block under the cursor.
func (m Model) onCurrent(action func(id int64) error) (tea.Model, tea.Cmd) {
	b, ok := m.currentBlock()
	if !ok {
		return m, nil
	}
	if err := action(b.ID); err != nil {
		return m, m.setError(err)
	}
	return m, nil
}

// commit flushes the session. On a flush failure the session stays in
// edit mode with the unwritten mutations queued so enter retries.
func (m Model) commit() (tea.Model, tea.Cmd) {
	pending := len(m.session.Pending())
	err := m.session.Commit(context.Background())

	var flushErr *session.FlushError
	switch {
	case errors.As(err, &flushErr):
		return m, m.setError(fmt.Errorf("saved %d of %d changes: %w", flushErr.Index, pending, flushErr.Err))
	case err != nil:
		m.clampCursor()
		return m, m.setError(err)
	}

	m.cache.put(m.session.Query(), m.session.Fetched())
	m.clampCursor()
	if pending == 0 {
		return m, m.setStatus("No changes")
	}
	return m, m.setStatus(fmt.Sprintf("Saved %d changes", pending))
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}
