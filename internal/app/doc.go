// Package app provides the orchestration layer for reviewdeck.
//
// # Overview
//
// This package wires together configuration, logging, the backend client, the
// two stores, and the operation controller. It is the composition root shared
// by the TUI and the headless commands.
//
// # Architecture
//
//  1. Load ~/.config/reviewdeck/config.toml and REVIEWDECK_* overrides
//  2. Apply command-line overrides (--api-base, --log-level)
//  3. Open the log file; the terminal belongs to the UI
//  4. Build backend.Client, state.Roster, state.Detail, and ops.Controller
//  5. Start the roster poller when roster_refresh_seconds > 0
//  6. Run the TUI and block until the user quits or ctx is cancelled; its
//     first commands refresh the roster and reopen the last selected app
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Bootstrap()       config, logging, client, stores, controller
//	       ├─────> StartPoller()     optional background roster refresh
//	       └─────> ui.Run()          TUI (blocks); Init refreshes and restores
//
// # Polling Behavior
//
// The poller refreshes the roster every roster_refresh_seconds. After
// consecutive failures the next refresh waits twice as long per failure, up
// to 30 seconds. The first success returns to the configured cadence.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - invalid config file, environment, or flags
//   - the log file cannot be opened
//
// Recoverable errors (logged):
//   - the backend is unreachable at start; the UI shows the offline state
//   - the last selected app no longer exists; it is forgotten
package app
