package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// component is one box of the static system diagram.
type component struct {
	ID          string
	Name        string
	Description string
	Details     []string
}

// connection links two components. Bidirectional links are drawn with a
// double arrow.
type connection struct {
	From, To      string
	Bidirectional bool
}

var components = []component{
	{
		ID:          "frontend",
		Name:        "React Frontend",
		Description: "User interface deployed as ICP canister",
		Details: []string{
			"Real-time dashboard updates",
			"Responsive design for all devices",
			"Dark/light theme support",
			"Professional UI components",
		},
	},
	{
		ID:          "backend",
		Name:        "Motoko Backend",
		Description: "Core logic running 100% on-chain",
		Details: []string{
			"Autonomous operation with timers",
			"HTTP outcalls for external data",
			"Secure API key management",
			"Comprehensive error handling",
		},
	},
	{
		ID:          "sentiment",
		Name:        "Sentiment Engine",
		Description: "AI-powered sentiment analysis",
		Details: []string{
			"Keyword-based analysis",
			"Confidence scoring",
			"Real-time processing",
			"Bullish/Bearish/Neutral classification",
		},
	},
	{
		ID:          "price",
		Name:        "Price Oracle",
		Description: "CoinGecko API integration",
		Details: []string{
			"Real-time ICP price data",
			"24h change tracking",
			"Market cap information",
			"Retry logic with backoff",
		},
	},
	{
		ID:          "news",
		Name:        "News Aggregator",
		Description: "NewsAPI integration for market news",
		Details: []string{
			"Cryptocurrency news filtering",
			"Text extraction and processing",
			"Multiple source aggregation",
			"Rate limiting protection",
		},
	},
	{
		ID:          "storage",
		Name:        "Stable Memory",
		Description: "Persistent data storage",
		Details: []string{
			"Upgrade-safe data persistence",
			"Log rotation management",
			"State recovery mechanisms",
			"Efficient memory usage",
		},
	},
	{
		ID:          "security",
		Name:        "Security Layer",
		Description: "Authentication and authorization",
		Details: []string{
			"Caller verification",
			"API key encryption",
			"Input sanitization",
			"Rate limiting protection",
		},
	},
	{
		ID:          "automation",
		Name:        "Automation Engine",
		Description: "5-minute automated cycles",
		Details: []string{
			"Timer-based execution",
			"Failure recovery",
			"Health monitoring",
			"Performance metrics",
		},
	},
}

var connections = []connection{
	{From: "frontend", To: "backend", Bidirectional: true},
	{From: "backend", To: "sentiment"},
	{From: "backend", To: "price"},
	{From: "backend", To: "news"},
	{From: "backend", To: "storage", Bidirectional: true},
	{From: "backend", To: "security", Bidirectional: true},
	{From: "backend", To: "automation", Bidirectional: true},
}

type archState struct {
	selected int
}

func componentName(id string) string {
	for _, c := range components {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// connectionsOf returns the links touching id, rendered as text.
func connectionsOf(id string) []string {
	var out []string
	for _, c := range connections {
		if c.From != id && c.To != id {
			continue
		}
		arrow := " → "
		if c.Bidirectional {
			arrow = " ↔ "
		}
		out = append(out, componentName(c.From)+arrow+componentName(c.To))
	}
	return out
}

func (m Model) handleArchitectureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.arch.selected = (m.arch.selected + 1) % len(components)
	case key.Matches(msg, m.keys.Up):
		m.arch.selected = (m.arch.selected + len(components) - 1) % len(components)
	case key.Matches(msg, m.keys.Top):
		m.arch.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.arch.selected = len(components) - 1
	}
	return m, nil
}

func (m Model) renderArchitecture() string {
	height := m.contentHeight()

	listWidth := 30
	if m.width < LayoutWideWidth {
		listWidth = maxInt(m.width*2/5, 24)
	}
	detailWidth := maxInt(m.width-listWidth, 20)

	list := m.renderTitledBox("Components", m.archListContent(), listWidth, height, true)
	detail := m.renderTitledBox(components[m.arch.selected].Name, m.archDetailContent(detailWidth-4), detailWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (m Model) archListContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	lines := make([]string, 0, len(components))
	for i, c := range components {
		if i == m.arch.selected {
			lines = append(lines, styles.Selected.Bold(true).Render(" ▸ "+c.Name+" "))
			continue
		}
		lines = append(lines, bg.Spaces(3)+bg.Render(c.Name, styles.Text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) archDetailContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	c := components[m.arch.selected]

	var lines []string
	for _, l := range wrapWords(c.Description, maxInt(width-2, 10)) {
		lines = append(lines, bg.Space()+bg.Render(l, styles.MutedText))
	}
	lines = append(lines, "", bg.Space()+bg.Render("Features", styles.AccentText.Bold(true)))
	for _, d := range c.Details {
		lines = append(lines, bg.Space()+bg.Render("• "+d, styles.Text))
	}

	if links := connectionsOf(c.ID); len(links) > 0 {
		lines = append(lines, "", bg.Space()+bg.Render("Connections", styles.AccentText.Bold(true)))
		for _, l := range links {
			lines = append(lines, bg.Space()+bg.Render(l, styles.InfoText))
		}
	}
	return strings.Join(lines, "\n")
}
