package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/aurad/internal/dashboard"
	"github.com/five82/aurad/internal/logfeed"
	"github.com/five82/aurad/internal/state"
)

const (
	msgNoLogs        = "No logs available"
	msgNoLogsMatch   = "No logs match your filters"
	msgNothingToSave = "No logs to export"
)

// logState holds all log-related state.
type logState struct {
	filter logfeed.Filter
	follow bool

	searching   bool
	searchInput textinput.Model

	// raw is the last log slice seen in a snapshot, most recent first.
	raw     []string
	entries []logfeed.Entry
	visible []logfeed.Entry

	// dirty forces the viewport content to be rebuilt.
	dirty bool
}

func newLogState() logState {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100
	ti.Prompt = "/"

	return logState{
		filter:      logfeed.Filter{Severity: logfeed.SeverityAll},
		follow:      true,
		searchInput: ti,
		dirty:       true,
	}
}

// syncLogs re-parses the snapshot's logs when they changed.
func (m *Model) syncLogs() {
	if !sameLines(m.logState.raw, m.snapshot.Logs) {
		m.logState.raw = m.snapshot.Logs
		m.logState.entries = logfeed.ParseAll(m.snapshot.Logs)
		m.logState.dirty = true
	}
	if m.logState.dirty {
		m.logState.visible = m.logState.filter.Apply(m.logState.entries)
		m.updateLogViewport()
	}
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// refilter applies the current filter and redraws.
func (m *Model) refilter() {
	m.logState.visible = m.logState.filter.Apply(m.logState.entries)
	m.logState.dirty = true
	m.updateLogViewport()
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(maxInt(m.width-4, 1), maxInt(m.contentHeight()-3, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}

	// Box inner height = content height - 2 borders - 1 status line.
	m.logViewport.Width = maxInt(m.width-4, 1)
	m.logViewport.Height = maxInt(m.contentHeight()-3, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.dirty {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.dirty = false
	}

	// Newest lines are at the top.
	if m.logState.follow {
		m.logViewport.GotoTop()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	height := m.contentHeight()
	box := m.renderTitledBox(m.getLogTitle(), m.logViewport.View(), m.width, height-1, true)
	return box + "\n" + m.renderLogStatus()
}

// getLogTitle returns the plain text title for the log view.
func (m Model) getLogTitle() string {
	if m.logState.filter.Active() {
		return "Backend Logs (filtered)"
	}
	return "Backend Logs"
}

// logCountLabel renders the "N of M logs" counter.
func logCountLabel(shown, total int) string {
	return fmt.Sprintf("%s of %s logs", humanize.Comma(int64(shown)), humanize.Comma(int64(total)))
}

// renderLogStatus renders the line under the log box.
func (m Model) renderLogStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Render(" | ", styles.FaintText)

	if m.logState.searching {
		return styles.Footer.Width(m.width).Render(m.logState.searchInput.View())
	}

	parts := []string{
		bg.Render(logCountLabel(len(m.logState.visible), len(m.logState.entries)), styles.Text),
		bg.Render("Level: ", styles.MutedText) +
			bg.Render(string(m.logState.filter.Severity), styles.KindStyle(string(m.logState.filter.Severity)).Bold(true)),
	}
	if q := strings.TrimSpace(m.logState.filter.Query); q != "" {
		parts = append(parts, bg.Render("Search: ", styles.MutedText)+bg.Render(truncate(q, 24), styles.AccentText))
	}
	followStyle := styles.FaintText
	if m.logState.follow {
		followStyle = styles.SuccessText
	}
	parts = append(parts, bg.Render("Auto-scroll ", styles.MutedText)+
		bg.Render(ternary(m.logState.follow, "on", "off"), followStyle))

	return styles.Footer.Width(m.width).Render(strings.Join(parts, sep))
}

// renderLogContent renders the filtered entries, one per line.
func (m *Model) renderLogContent() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)

	if len(m.logState.entries) == 0 {
		return bg.Render(msgNoLogs, styles.FaintText)
	}
	if len(m.logState.visible) == 0 {
		return bg.Render(msgNoLogsMatch, styles.FaintText)
	}

	lines := make([]string, 0, len(m.logState.visible))
	for _, e := range m.logState.visible {
		lines = append(lines, m.formatLogEntry(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders icon, time and message colored by severity.
func (m *Model) formatLogEntry(e logfeed.Entry, styles Styles, bg BgStyle) string {
	var b strings.Builder
	b.WriteString(bg.Render(logfeed.Icon(e.Severity), styles.Text))
	b.WriteString(bg.Space())
	if !e.Timestamp.IsZero() {
		b.WriteString(bg.Render(e.Timestamp.Local().Format("15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(e.Message, styles.KindStyle(string(e.Severity))))
	return b.String()
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.logState.searching = true
		m.logState.searchInput.SetValue(m.logState.filter.Query)
		m.logState.searchInput.CursorEnd()
		return m, m.logState.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSeverity):
		m.logState.filter.Severity = logfeed.NextSeverity(m.logState.filter.Severity)
		m.refilter()

	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoTop()
		}

	case key.Matches(msg, m.keys.ClearLogs):
		return m, m.actionCmd(actionClearLogs, m.controllerFn((*dashboard.Controller).ClearLogs))

	case key.Matches(msg, m.keys.Export):
		if len(m.logState.visible) == 0 {
			m.notice(state.BannerWarning, msgNothingToSave)
			return m, fetchSnapshotCmd(m.store)
		}
		dir := ""
		if m.config != nil {
			dir = m.config.ExportDir
		}
		return m, exportCmd(dir, m.logState.visible)

	case key.Matches(msg, m.keys.Copy):
		if len(m.logState.visible) == 0 {
			m.notice(state.BannerWarning, "No logs to copy")
			return m, fetchSnapshotCmd(m.store)
		}
		return m, copyCmd(m.clipboard, m.logState.visible)

	case key.Matches(msg, m.keys.Down):
		m.logState.follow = false
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = m.logViewport.AtTop()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logState.follow = false
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = m.logViewport.AtTop()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Bottom):
		m.logState.follow = false
		m.logViewport.GotoBottom()
	}
	return m, nil
}

// handleLogSearchInput filters live as the query is typed. Enter keeps the
// query, esc clears it.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.logState.searching = false
		m.logState.searchInput.Blur()
		return m, nil
	case "esc":
		m.logState.searching = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		m.logState.filter.Query = ""
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	if q := m.logState.searchInput.Value(); q != m.logState.filter.Query {
		m.logState.filter.Query = q
		m.refilter()
	}
	return m, cmd
}

func (m *Model) handleExportDone(msg exportDoneMsg) {
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("export logs failed")
		m.notice(state.BannerError, "Failed to export logs")
		return
	}
	m.log.Info().Str("path", msg.path).Int("lines", msg.count).Msg("exported logs")
	m.notice(state.BannerSuccess, "Logs exported to "+truncateMiddle(msg.path, 60))
}

func (m *Model) handleCopyDone(msg copyDoneMsg) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("copy logs failed")
		m.notice(state.BannerError, "Failed to copy logs to clipboard")
		return
	}
	m.notice(state.BannerSuccess, fmt.Sprintf("Copied %s log lines to clipboard", humanize.Comma(int64(msg.count))))
}
