package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panels stack vertically.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for side-by-side architecture panes.
	LayoutWideWidth = 120
)

// Chrome rows: header, command bar and banner above the content, status bar below.
const (
	chromeTop    = 3
	chromeBottom = 1
)

// Panel limits.
const (
	// KeywordLimit is the number of sentiment keywords shown before "+N more".
	KeywordLimit = 6

	// RecentLogLimit is the number of log lines previewed on the dashboard.
	RecentLogLimit = 5

	// DiagnosticLines is how much of the diagnostic log the overlay reads.
	DiagnosticLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the store.
	DefaultUIInterval = 500 * time.Millisecond

	// ActionTimeout bounds a single user-triggered backend call.
	ActionTimeout = 15 * time.Second
)
