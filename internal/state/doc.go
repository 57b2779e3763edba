// Package state provides thread-safe state management for aurad.
//
// # Overview
//
// Store is the single container for everything the dashboard displays:
// the dashboard snapshot, logs, system status, connectivity, the current
// banner and a few action results. Refresh cycles and action handlers write
// to it from their own goroutines; the UI reads immutable Snapshot copies on
// its tick.
//
//	Producers (refresh, actions):      Consumer (UI):
//	┌──────────────────────┐          ┌──────────────────┐
//	│ Begin() → seq        │          │                  │
//	│ SetConnected(seq,..) │          │                  │
//	│ SetDashboard(seq,..) │─────────→│ store.Snapshot() │
//	│ SetLogs(seq,..)      │ (mutex)  │      ↓           │
//	│ SetStatus(seq,..)    │          │  render panels   │
//	└──────────────────────┘          └──────────────────┘
//
// # Sequence Gating
//
// Poll cycles are allowed to overlap, so a slow cycle can finish after a
// faster, newer one. Every cycle takes a number from Begin, and each slice
// records the newest number applied to it. A result whose number is older
// than the slice's is dropped. Slices are gated independently, which keeps
// partial success: a failed fetch in the newest cycle does not block an
// older cycle from filling that slice.
//
// # Banners
//
// PostBanner returns an id. ClearBanner(id) only removes the banner if it is
// still the one that id refers to, so an action never clears a banner posted
// by another. ClearAlerts removes only warning and error banners. Expired
// banners are dropped when a snapshot is taken.
//
// # Defensive Copying
//
// Snapshot deep-copies slices and pointed-to records so the UI can never
// mutate stored state.
package state
