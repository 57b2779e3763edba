// Package ui is the Bubble Tea front end of aurad.
//
// The Model owns view state only: the active tab, overlays, form inputs and
// theme. Backend data is read from a state.Store snapshot every
// DefaultUIInterval, and every user action is handed to a
// dashboard.Controller inside a tea.Cmd so the event loop never blocks on
// the network.
//
// # Views
//
//   - Dashboard: sentiment gauge, ICP price card, system controls, recent logs
//   - Logs: filterable backend log viewer with export and clipboard copy
//   - Architecture: static component diagram with per-component details
//   - Governance: decision threshold form and decision simulator
//
// A header carries the logo, tabs and connection badge. Below it sit the
// command bar and a single banner line. The system status bar sits at the
// bottom and depends only on the backend's status counters.
//
// # Overlays
//
// Help (h or ?), the diagnostics log (D) and the API key dialog (K) draw over
// the main screen. Keys go to the topmost overlay or focused input first.
//
// # Error boundary
//
// A panic inside Update or View is recovered and logged. The model then shows
// a recovery screen until the user reloads with r, which rebuilds the model
// from its Options.
package ui
