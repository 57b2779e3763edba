package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/aurad/internal/logtail"
)

const msgDiagDisabled = "Diagnostics logging is disabled"

// diagState is the developer log overlay.
type diagState struct {
	visible  bool
	viewport viewport.Model
	lines    []string
	err      error
}

type diagLoadedMsg struct {
	lines []string
	err   error
}

func (m Model) loadDiagCmd() tea.Cmd {
	path := m.diagPath
	return func() tea.Msg {
		if path == "" {
			return diagLoadedMsg{}
		}
		lines, err := logtail.Tail(path, DiagnosticLines)
		return diagLoadedMsg{lines: lines, err: err}
	}
}

func (m *Model) applyDiag(msg diagLoadedMsg) {
	m.diag.lines = msg.lines
	m.diag.err = msg.err
	m.resizeDiag()
	m.diag.viewport.SetContent(m.diagContent())
	m.diag.viewport.GotoBottom()
}

func (m *Model) resizeDiag() {
	w := maxInt(m.width-4, 1)
	h := maxInt(m.height-4, 1)
	if m.diag.viewport.Width == 0 {
		m.diag.viewport = viewport.New(w, h)
		return
	}
	m.diag.viewport.Width = w
	m.diag.viewport.Height = h
}

func (m Model) diagContent() string {
	styles := m.theme.Styles()
	switch {
	case m.diagPath == "":
		return styles.FaintText.Render(msgDiagDisabled)
	case m.diag.err != nil:
		return styles.DangerText.Render("Failed to read " + m.diagPath + ": " + m.diag.err.Error())
	case len(m.diag.lines) == 0:
		return styles.FaintText.Render("Diagnostic log is empty")
	}
	return strings.Join(m.diag.lines, "\n")
}

func (m Model) handleDiagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Diagnostics):
		m.diag.visible = false
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadDiagCmd()
	case key.Matches(msg, m.keys.Down):
		m.diag.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.diag.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.diag.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.diag.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.diag.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.diag.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	title := "Diagnostics"
	if m.diagPath != "" {
		title += " " + truncateMiddle(m.diagPath, maxInt(m.width-20, 10))
	}
	box := m.renderTitledBox(title, m.diag.viewport.View(), m.width, maxInt(m.height-1, 3), true)
	footer := styles.Footer.Width(m.width).Render(
		bg.Render("esc", styles.AccentText) + bg.Render(" close  ", styles.MutedText) +
			bg.Render("r", styles.AccentText) + bg.Render(" reload  ", styles.MutedText) +
			bg.Render("j/k", styles.AccentText) + bg.Render(" scroll", styles.MutedText))
	return box + "\n" + footer
}
