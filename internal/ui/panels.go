package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/five82/aurad/internal/aura"
	"github.com/five82/aurad/internal/logfeed"
)

// Sentiment labels.
const (
	labelBullish = "Bullish"
	labelBearish = "Bearish"
	labelNeutral = "Neutral"
)

// sentimentLabel classifies a score in [-100, 100].
func sentimentLabel(score float64) string {
	switch {
	case score > 20:
		return labelBullish
	case score < -20:
		return labelBearish
	default:
		return labelNeutral
	}
}

// gaugePosition maps a score to a percentage along the gauge.
func gaugePosition(score float64) float64 {
	return clamp((score+100)/2, 0, 100)
}

// priceBarPercent is the width of the 24h change bar, in percent.
func priceBarPercent(change float64) float64 {
	return math.Min(100, math.Abs(change)*10)
}

// formatPrice renders a USD amount with between 2 and 4 decimals.
func formatPrice(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + whole + "." + frac
	}
	return sign + "$" + humanize.Comma(n) + "." + frac
}

// formatChange renders a signed percentage with two decimals.
func formatChange(change float64) string {
	return signed(change, 2) + "%"
}

// keywordList returns at most limit keywords and the number left over.
func keywordList(keywords []string, limit int) ([]string, int) {
	if len(keywords) <= limit {
		return keywords, 0
	}
	return keywords[:limit], len(keywords) - limit
}

// fillBar renders a bar of width cells with pct percent filled.
func fillBar(pct float64, width int) (filled, empty int) {
	if width <= 0 {
		return 0, 0
	}
	filled = int(math.Round(clamp(pct, 0, 100) / 100 * float64(width)))
	return filled, width - filled
}

// gaugeMarker returns the marker column for a gauge position.
func gaugeMarker(pos float64, width int) int {
	if width <= 1 {
		return 0
	}
	return int(math.Round(clamp(pos, 0, 100) / 100 * float64(width-1)))
}

// renderDashboard renders the four dashboard panels. Wide terminals get a
// two by two grid, narrow ones a single column.
func (m Model) renderDashboard() string {
	height := m.contentHeight()

	if m.width < LayoutCompactWidth {
		// Stacked: sentiment, price, controls. Logs are one key away.
		h := maxInt(height/3, 6)
		last := maxInt(height-2*h, 4)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitledBox("Market Sentiment", m.sentimentContent(m.width-4), m.width, h, false),
			m.renderTitledBox("ICP Price", m.priceContent(m.width-4), m.width, h, false),
			m.renderTitledBox("System Controls", m.controlsContent(m.width-4), m.width, last, true),
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	topHeight := height / 2
	bottomHeight := height - topHeight

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTitledBox("Market Sentiment", m.sentimentContent(leftWidth-4), leftWidth, topHeight, false),
		m.renderTitledBox("ICP Price", m.priceContent(rightWidth-4), rightWidth, topHeight, false),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTitledBox("System Controls", m.controlsContent(leftWidth-4), leftWidth, bottomHeight, true),
		m.renderTitledBox("Recent Logs", m.recentLogsContent(rightWidth-4), rightWidth, bottomHeight, false),
	)
	return top + "\n" + bottom
}

func (m Model) sentimentContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if !m.snapshot.DashboardLoaded {
		return bg.Space() + bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render("Loading sentiment...", styles.MutedText)
	}
	d := m.snapshot.Dashboard
	if d == nil || d.Sentiment == nil {
		return bg.Space() + bg.Render("No sentiment data available", styles.FaintText)
	}
	s := d.Sentiment

	label := sentimentLabel(s.Score)
	labelStyle := styles.WarningText
	switch label {
	case labelBullish:
		labelStyle = styles.SuccessText
	case labelBearish:
		labelStyle = styles.DangerText
	}

	barWidth := maxInt(width-2, 10)
	var lines []string
	lines = append(lines, bg.Space()+bg.Render(label, labelStyle.Bold(true))+bg.Spaces(2)+
		bg.Render(signed(s.Score, 1), styles.Text))

	// Gauge: red to green track with a marker.
	marker := gaugeMarker(gaugePosition(s.Score), barWidth)
	var gauge strings.Builder
	for i := 0; i < barWidth; i++ {
		if i == marker {
			gauge.WriteString(bg.Render("●", styles.Text.Bold(true)))
			continue
		}
		style := styles.WarningText
		switch third := barWidth / 3; {
		case i < third:
			style = styles.DangerText
		case i >= barWidth-third:
			style = styles.SuccessText
		}
		gauge.WriteString(bg.Render("─", style))
	}
	lines = append(lines, bg.Space()+gauge.String())
	lines = append(lines, bg.Space()+bg.Render(gaugeScale(barWidth), styles.FaintText))

	filled, empty := fillBar(s.Confidence*100, maxInt(barWidth-16, 4))
	lines = append(lines, "")
	lines = append(lines, bg.Space()+bg.Render("Confidence", styles.MutedText)+bg.Space()+
		bg.Render(strings.Repeat("█", filled), styles.AccentText)+
		bg.Render(strings.Repeat("░", empty), styles.FaintText)+bg.Space()+
		bg.Render(fmt.Sprintf("%d%%", int(math.Round(s.Confidence*100))), styles.Text))

	if len(s.Keywords) > 0 {
		shown, more := keywordList(s.Keywords, KeywordLimit)
		chips := make([]string, 0, len(shown)+1)
		for _, k := range shown {
			chips = append(chips, bg.Render(k, styles.InfoText))
		}
		if more > 0 {
			chips = append(chips, bg.Render(fmt.Sprintf("+%d more", more), styles.FaintText))
		}
		lines = append(lines, "")
		lines = append(lines, bg.Space()+bg.Render("Keywords", styles.MutedText)+bg.Space()+bg.Join(chips, ", "))
	}

	if !s.Timestamp.IsZero() {
		lines = append(lines, bg.Space()+bg.Render("Updated "+humanize.Time(s.Timestamp), styles.FaintText))
	}
	return strings.Join(lines, "\n")
}

// gaugeScale labels the ends and middle of a gauge of the given width.
func gaugeScale(width int) string {
	left, mid, right := "-100", "0", "+100"
	if width < len(left)+len(mid)+len(right)+2 {
		return left + " " + right
	}
	gap := width - len(left) - len(mid) - len(right)
	lpad := gap / 2
	return left + strings.Repeat(" ", lpad) + mid + strings.Repeat(" ", gap-lpad) + right
}

func (m Model) priceContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if !m.snapshot.DashboardLoaded {
		return bg.Space() + bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render("Loading price...", styles.MutedText)
	}
	d := m.snapshot.Dashboard
	if d == nil || d.Price == nil {
		return bg.Space() + bg.Render("No price data available", styles.FaintText)
	}
	return m.priceLines(d.Price, width, styles, bg)
}

func (m Model) priceLines(p *aura.Price, width int, styles Styles, bg BgStyle) string {
	positive := p.Change24h >= 0
	changeStyle := styles.DangerText
	arrow := "▼"
	trend := "Declining"
	if positive {
		changeStyle = styles.SuccessText
		arrow = "▲"
		trend = "Gaining"
	}

	barWidth := maxInt(width-2, 10)
	filled, empty := fillBar(priceBarPercent(p.Change24h), barWidth)

	lines := []string{
		bg.Space() + bg.Render("Internet Computer", styles.MutedText),
		"",
		bg.Space() + bg.Render(formatPrice(p.Value), styles.Text.Bold(true)),
		bg.Space() + bg.Render(arrow+" "+formatChange(p.Change24h), changeStyle) + bg.Space() + bg.Render("24h", styles.FaintText),
		"",
		bg.Space() + bg.Render(padRight("24h Performance", barWidth-len(trend)), styles.FaintText) + bg.Render(trend, changeStyle),
		bg.Space() + bg.Render(strings.Repeat("█", filled), changeStyle) + bg.Render(strings.Repeat("░", empty), styles.FaintText),
	}
	if !p.Timestamp.IsZero() {
		lines = append(lines, bg.Space()+bg.Render("Updated "+humanize.Time(p.Timestamp), styles.FaintText))
	}
	return strings.Join(lines, "\n")
}

func (m Model) controlsContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	enabled := m.controlsEnabled()
	button := func(key, label string) string {
		if !enabled {
			return bg.Render("["+key+"]", styles.FaintText) + bg.Space() + bg.Render(label, styles.FaintText)
		}
		return bg.Render("["+key+"]", styles.AccentText) + bg.Space() + bg.Render(label, styles.Text)
	}

	update := "Manual Update"
	if m.snapshot.Busy {
		update = "Updating " + m.spinner.View()
	}

	active := m.snapshot.Status != nil && m.snapshot.Status.IsActive
	cycle := button("S", "Start Cycle")
	if active {
		cycle = button("X", "Stop Cycle")
	}

	lines := []string{
		bg.Space() + button("u", update),
		bg.Space() + cycle,
		bg.Space() + bg.Render("[K]", styles.AccentText) + bg.Space() + bg.Render("Set API Key", styles.Text),
		"",
	}

	status := "Unknown"
	if d := m.snapshot.Dashboard; d != nil && d.Status != "" {
		status = d.Status
	}
	lines = append(lines, bg.Space()+bg.Render("Backend:", styles.MutedText)+bg.Space()+
		bg.Render(truncate(status, maxInt(width-10, 8)), styles.Text))

	if !enabled {
		reason := "Not connected"
		if m.snapshot.Busy {
			reason = "Update in progress"
		}
		lines = append(lines, bg.Space()+bg.Render(reason, styles.WarningText))
	}
	return strings.Join(lines, "\n")
}

func (m Model) recentLogsContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if len(m.logState.entries) == 0 {
		return bg.Space() + bg.Render(msgNoLogs, styles.FaintText)
	}

	n := minInt(RecentLogLimit, len(m.logState.entries))
	lines := make([]string, 0, n+1)
	for _, e := range m.logState.entries[:n] {
		lines = append(lines, bg.Space()+bg.Render(logfeed.Icon(e.Severity), styles.Text)+bg.Space()+
			bg.Render(truncate(e.Message, maxInt(width-4, 8)), styles.KindStyle(string(e.Severity))))
	}
	if len(m.logState.entries) > n {
		lines = append(lines, bg.Space()+bg.Render("2 or l for all logs", styles.FaintText))
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders a box with the title embedded in the top border.
// Content lines wider than the box are cut.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := maxInt(width-2, 1)
	title = truncate(title, maxInt(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := maxInt(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = ansi.Truncate(contentLines[i], innerWidth, "")
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
