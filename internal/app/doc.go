// Package app is the composition root of aurad.
//
// Run wires configuration, the diagnostic log, the gateway client, the
// shared state.Store, the dashboard controller, the Poller and the UI, then
// blocks until the user quits:
//
//	Run()
//	  ├─> Setup()            config.Load, diag.Open, aura.NewClient
//	  ├─> state.Store{}      shared snapshot
//	  ├─> dashboard.New()    refresh and user actions
//	  ├─> Poller.Start()     eager first refresh, then every PollInterval
//	  └─> ui.Run()           Bubble Tea program (blocks)
//
// On exit the poller stops ticking, deferred refreshes are cancelled and the
// diagnostic log is closed. In-flight refreshes are not interrupted; their
// results are discarded by the closed controller.
//
// # Polling
//
// The Poller refreshes once immediately and then on every tick. The first
// refresh races a guard timer; whichever finishes first decides the startup
// banner. Ticks do not wait for the previous refresh, so overlapping cycles
// are possible and the store's sequence gating keeps the newest data.
//
// Setup is also used by the scripting subcommands, which call the gateway
// directly without starting the UI.
package app
