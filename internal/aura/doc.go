// Package aura provides an HTTP client for the AURA gateway API.
//
// # Overview
//
// The gateway fronts the AURA backend and exposes each of its remote
// procedures as a small JSON endpoint. This package is the only place in
// aurad that performs network I/O against it.
//
// # API Endpoints
//
//   - GET  /api/dashboard: aggregate snapshot, or null when none exists yet
//   - GET  /api/logs: {"logs": [...]} raw lines, oldest first
//   - GET  /api/status: operational counters
//   - GET  /api/health: liveness probe
//   - POST /api/update, /api/logs/clear, /api/cycle/start, /api/cycle/stop
//   - POST /api/apikey and /api/governance/threshold: {"ok": ...} or {"err": "reason"}
//   - GET  /api/governance/threshold, POST /api/simulate
//
// Timestamps arrive as nanoseconds since the Unix epoch and are decoded
// into time.Time once, here, so callers never handle raw wire values.
//
// # Error Handling
//
// Every operation fails with an *Error whose message is fixed per
// operation ("failed to fetch logs"). Transport detail such as
// "execute request: dial tcp: connection refused" stays reachable through
// errors.Unwrap for the diagnostic log but is never shown to the user.
// Structured rejections carry the backend's reason and match ErrRejected.
//
// Each request carries an X-Request-Id header so a failure in the
// diagnostic log can be matched with gateway logs.
//
// # Design
//
//   - No caching (the poller decides refresh cadence)
//   - No retries (the dashboard reports failures and waits for the next cycle)
//   - No batching or deduplication; concurrent calls are independent
package aura
