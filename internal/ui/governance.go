package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Governance form fields.
const (
	fieldThreshold = iota
	fieldETH
	fieldBNB
	fieldCount
)

var fieldLabels = [fieldCount]string{"Threshold", "ETH price", "BNB price"}

// govState holds the governance and simulation forms.
type govState struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	editing bool
}

func newGovState() govState {
	var g govState
	placeholders := [fieldCount]string{"e.g. 0.5", "e.g. 3200", "e.g. 580"}
	for i := range g.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 32
		ti.Width = 20
		ti.Prompt = ""
		g.inputs[i] = ti
	}
	return g
}

func (g *govState) resize(width int) {
	w := clampInt(width/3, 12, 32)
	for i := range g.inputs {
		g.inputs[i].Width = w
	}
}

func (g *govState) clear(field int) {
	if field >= 0 && field < fieldCount {
		g.inputs[field].SetValue("")
	}
}

// startEditing focuses the current field.
func (g *govState) startEditing() tea.Cmd {
	g.editing = true
	return g.inputs[g.focus].Focus()
}

func (g *govState) stopEditing() {
	g.editing = false
	g.inputs[g.focus].Blur()
}

func clampInt(v, lo, hi int) int {
	return maxInt(lo, minInt(v, hi))
}

func (m Model) handleGovernanceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.gov.focus = (m.gov.focus + 1) % fieldCount
	case key.Matches(msg, m.keys.Up):
		m.gov.focus = (m.gov.focus + fieldCount - 1) % fieldCount
	case key.Matches(msg, m.keys.Confirm):
		return m, m.gov.startEditing()
	}
	return m, nil
}

// handleGovernanceInput routes keys to the focused field. Enter submits the
// form the field belongs to.
func (m Model) handleGovernanceInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.gov.stopEditing()
		return m, nil
	case "tab":
		m.gov.stopEditing()
		m.gov.focus = (m.gov.focus + 1) % fieldCount
		return m, m.gov.startEditing()
	case "enter":
		m.gov.stopEditing()
		return m, m.submitGovernance()
	}

	var cmd tea.Cmd
	m.gov.inputs[m.gov.focus], cmd = m.gov.inputs[m.gov.focus].Update(msg)
	return m, cmd
}

// submitGovernance sends the form that owns the focused field. The
// controller validates and reports bad input through a banner.
func (m Model) submitGovernance() tea.Cmd {
	if m.controller == nil {
		return nil
	}
	c := m.controller
	if m.gov.focus == fieldThreshold {
		raw := m.gov.inputs[fieldThreshold].Value()
		return m.actionCmd(actionSetThreshold, func(ctx context.Context) error {
			return c.SetThreshold(ctx, raw)
		})
	}
	eth := m.gov.inputs[fieldETH].Value()
	bnb := m.gov.inputs[fieldBNB].Value()
	return m.actionCmd(actionSimulate, func(ctx context.Context) error {
		return c.Simulate(ctx, eth, bnb)
	})
}

func (m Model) renderGovernance() string {
	height := m.contentHeight()
	topHeight := maxInt(height/2, 8)

	return m.renderTitledBox("Governance", m.thresholdContent(), m.width, topHeight, m.gov.focus == fieldThreshold) + "\n" +
		m.renderTitledBox("Decision Simulator", m.simulatorContent(), m.width, maxInt(height-topHeight, 8), m.gov.focus != fieldThreshold)
}

func (m Model) fieldLine(field int, bg BgStyle, styles Styles) string {
	marker := bg.Spaces(2)
	labelStyle := styles.MutedText
	if m.gov.focus == field {
		marker = bg.Render("▸", styles.AccentText) + bg.Space()
		labelStyle = styles.Text.Bold(true)
	}
	value := m.gov.inputs[field].View()
	if !m.gov.editing || m.gov.focus != field {
		v := m.gov.inputs[field].Value()
		if v == "" {
			value = bg.Render(m.gov.inputs[field].Placeholder, styles.FaintText)
		} else {
			value = bg.Render(v, styles.Text)
		}
	}
	return bg.Space() + marker + bg.Render(padRight(fieldLabels[field], 12), labelStyle) + value
}

func (m Model) thresholdContent() string {
	bgColor := m.theme.SurfaceAlt
	if m.gov.focus == fieldThreshold {
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	current := "Loading..."
	if m.snapshot.HasThreshold {
		current = strconv.FormatFloat(m.snapshot.Threshold, 'f', -1, 64)
	}

	lines := []string{
		bg.Space() + bg.Render("Current threshold:", styles.MutedText) + bg.Space() + bg.Render(current, styles.AccentText.Bold(true)),
		"",
		m.fieldLine(fieldThreshold, bg, styles),
		"",
		bg.Space() + bg.Render("Minimum sentiment confidence for automated decisions.", styles.FaintText),
	}
	return strings.Join(lines, "\n")
}

func (m Model) simulatorContent() string {
	bgColor := m.theme.SurfaceAlt
	if m.gov.focus != fieldThreshold {
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	lines := []string{
		m.fieldLine(fieldETH, bg, styles),
		m.fieldLine(fieldBNB, bg, styles),
		"",
	}

	d := m.snapshot.Decision
	if d == nil {
		lines = append(lines, bg.Space()+bg.Render("No simulation run yet", styles.FaintText))
		return strings.Join(lines, "\n")
	}

	actionStyle := styles.WarningText.Bold(true)
	switch strings.ToLower(d.Action) {
	case "buy":
		actionStyle = styles.SuccessText
	case "sell":
		actionStyle = styles.DangerText
	}
	lines = append(lines,
		bg.Space()+bg.Render("Decision:", styles.MutedText)+bg.Space()+bg.Render(d.Action, actionStyle),
		bg.Space()+bg.Render("Reason:", styles.MutedText)+bg.Space()+bg.Render(d.Reason, styles.Text),
		bg.Space()+bg.Render("Score:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%.2f", d.Score), styles.Text),
	)
	return strings.Join(lines, "\n")
}
