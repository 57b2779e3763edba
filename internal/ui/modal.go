package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// apiKeyModal collects a new upstream API key. The value is never echoed.
type apiKeyModal struct {
	input  textinput.Model
	submit func(string) tea.Cmd
}

func newAPIKeyModal(submit func(string) tea.Cmd) *apiKeyModal {
	ti := textinput.New()
	ti.Placeholder = "Enter API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()
	return &apiKeyModal{input: ti, submit: submit}
}

func (a *apiKeyModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case km.String() == "esc":
			return a, nil, true
		case key.Matches(km, keys.Confirm):
			value := a.input.Value()
			a.input.SetValue("")
			var cmd tea.Cmd
			if a.submit != nil {
				cmd = a.submit(value)
			}
			return a, cmd, true
		}
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd, false
}

func (a *apiKeyModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Set API Key"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Key used by the backend for news and price sources."))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" save  ") +
		styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))

	return placeModal(theme, width, height, 56, b.String())
}

// placeModal centers content in a rounded, accent-bordered box.
func placeModal(theme Theme, width, height, modalWidth int, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(minInt(modalWidth, maxInt(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
