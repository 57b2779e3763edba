package ui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/aurad/internal/aura"
	"github.com/five82/aurad/internal/logfeed"
	"github.com/five82/aurad/internal/prefs"
	"github.com/five82/aurad/internal/state"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, store *state.Store) Model {
	t.Helper()
	m := New(Options{
		Store:     store,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		DarkMode:  true,
		Clipboard: func(string) error { return nil },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	require.Equal(t, ViewDashboard, m.currentView)

	m = press(t, m, runes("2"))
	assert.Equal(t, ViewLogs, m.currentView)

	m = press(t, m, runes("a"))
	assert.Equal(t, ViewArchitecture, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewGovernance, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ViewDashboard, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, ViewGovernance, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewDashboard, m.currentView)
}

func TestAPIKeyModalMasksInput(t *testing.T) {
	m := newTestModel(t, &state.Store{})

	m = press(t, m, runes("K"))
	modal, ok := m.modal.(*apiKeyModal)
	require.True(t, ok, "K should open the API key modal")
	assert.Equal(t, textinput.EchoPassword, modal.input.EchoMode)

	m = press(t, m, runes("hunter2"))
	require.NotNil(t, m.modal)
	view := m.View()
	assert.NotContains(t, view, "hunter2")
	assert.Contains(t, view, "Set API Key")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.modal)
}

type panicModal struct{}

func (panicModal) Update(tea.Msg, keyMap) (Modal, tea.Cmd, bool) { panic("boom") }
func (panicModal) View(Theme, int, int) string                   { return "" }

func TestPanicShowsRecoveryScreen(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	m.modal = panicModal{}

	m = press(t, m, runes("x"))
	require.True(t, m.boundary.tripped.Load())

	view := m.View()
	assert.Contains(t, view, "Something went wrong")
	assert.NotContains(t, view, "boom")

	// Keys other than reload and quit are ignored on the recovery screen.
	m = press(t, m, runes("2"))
	assert.Equal(t, ViewDashboard, m.currentView)

	m = press(t, m, runes("r"))
	assert.False(t, m.boundary.tripped.Load())
	assert.Nil(t, m.modal)
	assert.True(t, m.ready)
	assert.Equal(t, 120, m.width)
}

func TestViewPanicIsContained(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	m.modal = viewPanicModal{}

	view := m.View()
	assert.Contains(t, view, "Something went wrong")
	assert.True(t, m.boundary.tripped.Load())
}

type viewPanicModal struct{}

func (v viewPanicModal) Update(tea.Msg, keyMap) (Modal, tea.Cmd, bool) { return v, nil, false }
func (viewPanicModal) View(Theme, int, int) string                     { panic("render") }

func TestLogFilterAndCount(t *testing.T) {
	store := &state.Store{}
	seq := store.Begin()
	store.SetLogs(seq, []string{
		"1700000000000000003 | ❌ Price fetch failed",
		"1700000000000000002 | ✅ Sentiment analysis completed",
		"1700000000000000001 | 🔄 Starting cycle",
	})

	m := newTestModel(t, store)
	m.applySnapshot(store.Snapshot())
	m = press(t, m, runes("2"))

	require.Len(t, m.logState.entries, 3)
	assert.Equal(t, "3 of 3 logs", logCountLabel(len(m.logState.visible), len(m.logState.entries)))

	m = press(t, m, runes("f"))
	assert.Equal(t, logfeed.SeverityError, m.logState.filter.Severity)
	require.Len(t, m.logState.visible, 1)
	assert.Equal(t, "❌ Price fetch failed", m.logState.visible[0].Message)

	m = press(t, m, runes("f"))
	m = press(t, m, runes("/"))
	require.True(t, m.logState.searching)
	m = press(t, m, runes("zzz"))
	assert.Empty(t, m.logState.visible)
	assert.Contains(t, m.renderLogContent(), msgNoLogsMatch)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.logState.searching)
	assert.Empty(t, m.logState.filter.Query)
}

func TestEmptyLogsMessage(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	assert.Contains(t, m.renderLogContent(), msgNoLogs)
}

func TestToggleThemePersists(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	require.True(t, m.theme.Dark)

	m = press(t, m, runes("T"))
	assert.False(t, m.theme.Dark)
	assert.False(t, prefs.Load(m.prefsPath).DarkMode)

	m = press(t, m, runes("T"))
	assert.True(t, m.theme.Dark)
	assert.True(t, prefs.Load(m.prefsPath).DarkMode)
}

func TestStatusBarIndependentOfDashboard(t *testing.T) {
	store := &state.Store{}
	m := newTestModel(t, store)
	assert.Contains(t, m.renderStatusBar(), "Waiting for system status")

	store.SetStatus(store.Begin(), &aura.SystemStatus{IsActive: true, CycleCount: 1234, LogsCount: 7})
	m.applySnapshot(store.Snapshot())
	bar := m.renderStatusBar()
	assert.Contains(t, bar, "Active")
	assert.Contains(t, bar, "1,234")
	assert.Contains(t, bar, "Never")
}

func TestDashboardEmptyStates(t *testing.T) {
	store := &state.Store{}
	m := newTestModel(t, store)
	assert.Contains(t, m.sentimentContent(40), "Loading")

	store.SetDashboard(store.Begin(), nil)
	m.applySnapshot(store.Snapshot())
	assert.Contains(t, m.sentimentContent(40), "No sentiment data available")
	assert.Contains(t, m.priceContent(40), "No price data available")

	store.SetDashboard(store.Begin(), &aura.DashboardData{
		Sentiment: &aura.Sentiment{Score: 45, Confidence: 0.8, Keywords: []string{"a", "b", "c", "d", "e", "f", "g"}},
		Price:     &aura.Price{Value: 12.5, Change24h: -3},
	})
	m.applySnapshot(store.Snapshot())
	sentiment := m.sentimentContent(60)
	assert.Contains(t, sentiment, labelBullish)
	assert.Contains(t, sentiment, "80%")
	assert.Contains(t, sentiment, "+1 more")
	price := m.priceContent(60)
	assert.Contains(t, price, "$12.50")
	assert.Contains(t, price, "-3.00%")
	assert.Contains(t, price, "Declining")
}

func TestGovernanceEditing(t *testing.T) {
	m := newTestModel(t, &state.Store{})
	m = press(t, m, runes("4"))
	require.Equal(t, ViewGovernance, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.gov.editing)
	m = press(t, m, runes("0.7"))
	assert.Equal(t, "0.7", m.gov.inputs[fieldThreshold].Value())

	// Keys are captured by the field while editing.
	assert.Equal(t, ViewGovernance, m.currentView)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldETH, m.gov.focus)
	assert.True(t, m.gov.editing)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.gov.editing)
	assert.True(t, strings.Contains(m.renderGovernance(), "0.7"))
}
