package ui

// logoMark is drawn before the product name in the header.
const logoMark = "◆"

// renderLogo renders the AURA wordmark on the header background.
func (m Model) renderLogo(bg BgStyle) string {
	styles := m.theme.Styles()
	return bg.Render(logoMark, styles.AccentText) + bg.Space() + bg.Render("AURA", styles.Logo)
}
