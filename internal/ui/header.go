package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/aurad/internal/aura"
	"github.com/five82/aurad/internal/state"
)

// renderHeader renders the logo, view tabs and connection badge.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{m.renderLogo(bg)}

	tabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		label := name
		if m.width >= LayoutCompactWidth {
			label = string(rune('1'+i)) + " " + name
		}
		if View(i) == m.currentView {
			tabs = append(tabs, styles.Selected.Bold(true).Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, bg.Spaces(1)+bg.Render(label, styles.MutedText)+bg.Spaces(1))
		}
	}
	parts = append(parts, strings.Join(tabs, bg.Space()))
	parts = append(parts, m.connectionBadge(styles, bg))

	if m.snapshot.Busy || !m.snapshot.Probed {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Spaces(1) + strings.Join(parts, sep))
}

// connectionBadge reflects the latest health probe.
func (m Model) connectionBadge(styles Styles, bg BgStyle) string {
	switch {
	case !m.snapshot.Probed:
		return bg.Render("○ Connecting", styles.WarningText.Bold(true))
	case m.snapshot.Connected:
		return bg.Render("● Connected", styles.SuccessText)
	default:
		return bg.Render("● Disconnected", styles.DangerText)
	}
}

// renderCommandBar renders the command hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"Space", ternary(m.logState.follow, "Pause", "Follow")},
			{"/", "Search"},
			{"f", "Level"},
			{"C", "Clear"},
			{"E", "Export"},
			{"y", "Copy"},
		}
	case ViewArchitecture:
		commands = []cmd{
			{"j/k", "Select"},
		}
	case ViewGovernance:
		commands = []cmd{
			{"j/k", "Field"},
			{"enter", "Edit"},
		}
	default:
		commands = []cmd{
			{"u", "Update"},
			{"S/X", "Start/Stop"},
			{"K", "API key"},
		}
	}
	commands = append(commands, cmd{"r", "Refresh"}, cmd{"Tab", "Views"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewLogs && m.logState.filter.Query != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logState.filter.Query, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderBanner renders the current banner line, or a blank line.
func (m Model) renderBanner() string {
	base := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Background)).Width(m.width)

	b := m.snapshot.Banner
	if b == nil {
		return base.Render("")
	}

	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	badge := styles.BadgeStyle(string(b.Kind)).Render(bannerLabel(b.Kind))
	msg := truncate(b.Message, maxInt(m.width-16, 10))

	line := bg.Spaces(1) + badge + bg.Space() +
		bg.Render(msg, styles.KindStyle(string(b.Kind))) + bg.Spaces(2) +
		bg.Render("x dismiss", styles.FaintText)
	return base.Render(line)
}

func bannerLabel(kind state.BannerKind) string {
	switch kind {
	case state.BannerError:
		return "ERROR"
	case state.BannerWarning:
		return "WARN"
	case state.BannerSuccess:
		return "OK"
	default:
		return "INFO"
	}
}

// renderStatusBar renders backend counters. It depends only on the system
// status, not on the dashboard.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	st := m.snapshot.Status
	if st == nil {
		return styles.Footer.Width(m.width).Render(
			bg.Render("Waiting for system status...", styles.FaintText))
	}

	return styles.Footer.Width(m.width).Render(bg.Join(statusParts(st, time.Now(), styles, bg), "  "))
}

func statusParts(st *aura.SystemStatus, now time.Time, styles Styles, bg BgStyle) []string {
	active := bg.Render("○ Inactive", styles.MutedText)
	if st.IsActive {
		active = bg.Render("● Active", styles.SuccessText)
	}

	return []string{
		active,
		bg.Render("Cycles:", styles.MutedText) + bg.Space() + bg.Render(humanize.Comma(st.CycleCount), styles.Text),
		bg.Render("Logs:", styles.MutedText) + bg.Space() + bg.Render(humanize.Comma(st.LogsCount), styles.Text),
		bg.Render("Last Update:", styles.MutedText) + bg.Space() + bg.Render(formatLastUpdate(st.LastUpdate, now), styles.Text),
	}
}

// formatLastUpdate renders a clock time with a relative suffix.
func formatLastUpdate(t, now time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format("15:04:05") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}
