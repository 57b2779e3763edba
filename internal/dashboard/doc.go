// Package dashboard implements the refresh cycle and user actions of aurad.
//
// A refresh probes backend health first. When the probe fails the store is
// marked disconnected, a "Connection lost" warning is shown and nothing else
// is fetched, so the last known data stays on screen. When it succeeds the
// dashboard, logs and status are fetched concurrently and each result is
// applied independently.
//
// Actions (manual update, clear logs, API key, cycle start/stop, threshold,
// simulation) post an in-progress banner, call the backend and replace it
// with a success or failure banner. Manual updates and cycle changes schedule
// one follow-up refresh; Close cancels any that have not fired yet.
package dashboard
