// Package app provides the orchestration layer for the folio application.
//
// # Overview
//
// This package wires together configuration, logging, the session store,
// the catalog API client, and the UI to create the complete folio TUI
// experience. It serves as the composition root where all dependencies
// are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/folio/config.toml plus FOLIO_* env overrides
//  2. Open the structured log file sink
//  3. Open the session store and restore any persisted login
//  4. Initialize the HTTP client for the catalog API, wired to the session
//     store for bearer tokens and the global 401 teardown
//  5. Load user preferences (theme)
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Session Teardown
//
// The catalog client reads the bearer token from the session store on
// every request. When any authenticated endpoint answers 401, the client
// clears the store before the error reaches the UI, so the login redirect
// and the token teardown cannot race.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - Log sink cannot be created
//   - Session directory cannot be read
//   - Base URL cannot be parsed
//
// Recoverable (logged, startup continues):
//   - Missing config file (defaults apply)
//   - Unreadable preferences file (default theme applies)
//   - Expired or corrupt persisted session (discarded, login view opens)
package app
