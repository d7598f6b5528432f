package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/chain"
	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/selection"
	"github.com/javiermolinar/tock/internal/summary"
)

const (
	headerLines  = 2
	footerLines  = 4
	defaultWidth = 80
	clockLayout  = "15:04"
)

// View renders the model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderRows())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) renderHeader() string {
	day := m.session.Query().From
	date := day.Format("Monday 2006-01-02")
	if dateutil.IsToday(day, m.now()) {
		date += " · today"
	}

	left := m.styles.TitleStyle.Render("tock") + "  " + m.styles.DateStyle.Render(date)

	mode := m.Mode()
	badgeStyle := m.styles.ModeViewStyle
	if mode == ModeEdit {
		badgeStyle = m.styles.ModeEditStyle
	}
	right := badgeStyle.Render(mode.String())

	bar := m.styles.HeaderBarStyle
	inner := m.viewWidth() - bar.GetHorizontalFrameSize()
	gap := max(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	return bar.Width(m.viewWidth()).Render(left + strings.Repeat(" ", gap) + right)
}

// shiftedIDs returns the IDs whose working copy differs from what is stored.
func (m Model) shiftedIDs() map[int64]bool {
	if !m.session.IsEditing() {
		return nil
	}
	saved := make(map[int64]block.Block)
	for _, b := range m.session.Fetched() {
		saved[b.ID] = b
	}
	shifted := make(map[int64]bool)
	for _, b := range m.session.Blocks() {
		if orig, ok := saved[b.ID]; !ok || !orig.Equal(b) {
			shifted[b.ID] = true
		}
	}
	return shifted
}

func (m Model) renderRows() string {
	entries := m.session.Entries()
	visible := m.visibleRows()

	if len(entries) == 0 {
		msg := "No blocks logged. Press a to add one."
		if m.loading {
			msg = "Loading..."
		}
		return m.styles.EmptyStateStyle.Render(msg) + strings.Repeat("\n", max(0, visible-3))
	}

	blocks := make([]block.Block, len(entries))
	for i, e := range entries {
		blocks[i] = e.Block
	}
	roles := chain.Roles(blocks)
	shifted := m.shiftedIDs()
	loc := m.now().Location()

	end := min(len(entries), m.offset+visible)
	lines := make([]string, 0, visible)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(entries[i], roles[i], i == m.cursor, shifted[entries[i].ID], loc))
	}
	if end < len(entries) && len(lines) > 1 {
		lines[len(lines)-1] = m.styles.ScrollHintStyle.Render(fmt.Sprintf("  ↓ %d more", len(entries)-end+1))
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one block. Cursor and shifted rows are drawn as plain
// text inside a full-width background so inner styles don't break the fill.
func (m Model) renderRow(e selection.Entry, role chain.Role, isCursor, isShifted bool, loc *time.Location) string {
	pointer := "  "
	if isCursor {
		pointer = "▸ "
	}
	status := "○"
	if e.IsComplete {
		status = "✓"
	}
	rank := "   "
	if e.Selected() {
		rank = fmt.Sprintf("%-3s", fmt.Sprintf("[%d]", e.Rank))
	}
	span := e.StartedAt.In(loc).Format(clockLayout) + "-" + e.EndedAt.In(loc).Format(clockLayout)
	duration := fmt.Sprintf("%6s", summary.FormatDuration(e.Duration()))

	prefixWidth := lipgloss.Width(pointer+role.Glyph()+" "+status+" "+rank+" "+span+" "+duration) + 2
	desc := e.Description
	if room := m.viewWidth() - prefixWidth; room > 0 {
		desc = ansi.Truncate(desc, room, "…")
	}

	if isCursor || isShifted {
		style := m.styles.RowShiftedStyle
		if isCursor {
			style = m.styles.RowCursorStyle
		}
		text := pointer + role.Glyph() + " " + status + " " + rank + " " + span + " " + duration + "  " + desc
		return style.Width(m.viewWidth()).Render(text)
	}

	statusStyle := m.styles.PendingStyle
	if e.IsComplete {
		statusStyle = m.styles.DoneStyle
	}
	if e.Selected() {
		rank = m.styles.RankStyle.Render(rank)
	}
	return pointer +
		m.styles.ChainStyle.Render(role.Glyph()) + " " +
		statusStyle.Render(status) + " " +
		rank + " " +
		m.styles.TimeStyle.Render(span) + " " +
		m.styles.DurationStyle.Render(duration) + "  " +
		m.styles.RowStyle.Render(desc)
}

func (m Model) renderFooter() string {
	lines := make([]string, 0, footerLines)

	switch {
	case m.statusMsg != "" && m.statusErr:
		lines = append(lines, m.styles.ErrorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		lines = append(lines, m.styles.StatusStyle.Render(m.statusMsg))
	default:
		lines = append(lines, m.styles.SummaryStyle.Render(summary.Summarize(m.session.Blocks()).String()))
	}

	switch m.Mode() {
	case ModePrompt:
		lines = append(lines, m.prompt.View())
	case ModeEdit:
		lines = append(lines, m.styles.MutedStyle.Render(m.editInfo()))
	default:
		lines = append(lines, "")
	}

	lines = append(lines, m.help.View(m.keys.helpFor(m.Mode())))
	return strings.Join(lines, "\n")
}

// editInfo describes the open edit, e.g. "3 pending · 2 selected · 1 undo".
func (m Model) editInfo() string {
	parts := []string{fmt.Sprintf("%d pending", len(m.session.Pending()))}
	if n := len(m.session.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if m.session.CanUndo() {
		parts = append(parts, fmt.Sprintf("%d undo", m.session.UndoCount()))
	}
	parts = append(parts, "step "+summary.FormatDuration(m.session.Step()))
	return strings.Join(parts, " · ")
}
