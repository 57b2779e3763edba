package ui

import "strings"

// renderCrash is the recovery screen shown after a panic. It never shows the
// panic itself; that goes to the diagnostic log.
func (m Model) renderCrash() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Something went wrong"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("The application encountered an unexpected error. Please try refreshing the page."))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("r") + styles.MutedText.Render(" reload · ") +
		styles.AccentText.Render("e") + styles.MutedText.Render(" quit"))

	if m.width <= 0 || m.height <= 0 {
		return b.String()
	}
	return placeModal(m.theme, m.width, m.height, 60, b.String())
}
