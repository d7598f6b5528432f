package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-len(m.prompt.Prompt)-4)
		m.ensureCursorVisible()
		return m, nil

	case commands.DayLoadedMsg:
		m.cache.put(msg.Query, msg.Blocks)
		// Drop responses for a day we already navigated away from.
		if msg.Query != m.session.Query() {
			return m, nil
		}
		m.session.SetFetched(msg.Blocks)
		m.loading = false
		m.clampCursor()
		return m, nil

	case commands.BlockUpdatedMsg:
		m.cache.invalidate(m.session.Query())
		state := "reopened"
		if msg.Block.IsComplete {
			state = "done"
		}
		cmd := m.setStatus(fmt.Sprintf("#%d %s", msg.Block.ID, state))
		return m, tea.Batch(cmd, commands.LoadDay(m.repo, m.session.Query()))

	case commands.BlockCreatedMsg:
		m.cache.invalidate(m.session.Query())
		cmd := m.setStatus(fmt.Sprintf("Created #%d", msg.Block.ID))
		return m, tea.Batch(cmd, commands.LoadDay(m.repo, m.session.Query()))

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg)

	case commands.ErrMsg:
		m.loading = false
		return m, m.setError(msg.Err)

	case commands.ClearStatusMsg:
		if !time.Now().Before(m.statusUntil) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// showDay switches the view to q, rendering the cached list right away
// and loading a fresh one.
func (m Model) showDay(q block.Query) (tea.Model, tea.Cmd) {
	if err := m.session.SetQuery(q); err != nil {
		return m, m.setError(err)
	}
	m.cursor, m.offset = 0, 0
	if cached, ok := m.cache.get(q); ok {
		m.session.SetFetched(cached)
		m.loading = false
	} else {
		m.session.SetFetched(nil)
		m.loading = true
	}
	return m, commands.LoadDay(m.repo, q)
}

// todayQuery returns the list query for the current day.
func (m Model) todayQuery() block.Query {
	return block.Day(dateutil.TruncateToDay(m.now()), m.config.Tracking.PageSize)
}
