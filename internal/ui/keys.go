package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit          key.Binding
	Help          key.Binding
	ToggleTheme   key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding
	Escape        key.Binding
	Diagnostics   key.Binding
	DismissBanner key.Binding

	// View switching
	ViewDashboard    key.Binding
	ViewLogs         key.Binding
	ViewArchitecture key.Binding
	ViewGovernance   key.Binding

	// Backend actions
	Refresh    key.Binding
	Update     key.Binding
	StartCycle key.Binding
	StopCycle  key.Binding
	APIKey     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Logs actions
	ToggleFollow  key.Binding
	Search        key.Binding
	CycleSeverity key.Binding
	ClearLogs     key.Binding
	Export        key.Binding
	Copy          key.Binding

	// Forms
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Toggle dark/light"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to dashboard"),
		),
		Diagnostics: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Diagnostics log"),
		),
		DismissBanner: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Dismiss banner"),
		),

		ViewDashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Dashboard"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("2", "l"),
			key.WithHelp("2/l", "Logs"),
		),
		ViewArchitecture: key.NewBinding(
			key.WithKeys("3", "a"),
			key.WithHelp("3/a", "Architecture"),
		),
		ViewGovernance: key.NewBinding(
			key.WithKeys("4", "v"),
			key.WithHelp("4/v", "Governance"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		Update: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Manual update"),
		),
		StartCycle: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Start cycle"),
		),
		StopCycle: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Stop cycle"),
		),
		APIKey: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "Set API key"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle auto-scroll"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search logs"),
		),
		CycleSeverity: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle severity filter"),
		),
		ClearLogs: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear logs"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Export logs"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy logs"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewDashboard, k.ViewLogs, k.ViewArchitecture, k.ViewGovernance, k.Escape},
		{k.Refresh, k.Update, k.StartCycle, k.StopCycle, k.APIKey},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.ToggleFollow, k.Search, k.CycleSeverity, k.ClearLogs, k.Export, k.Copy},
		{k.ToggleTheme, k.Diagnostics, k.DismissBanner, k.Help, k.Quit},
	}
}
