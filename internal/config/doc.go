// Package config handles loading folio's configuration.
//
// # Overview
//
// Configuration comes from three layers, later layers winning:
//
//  1. Built-in defaults
//  2. TOML file (~/.config/folio/config.toml by default)
//  3. FOLIO_* environment variables (a .env file in the working
//     directory is loaded first when present)
//
// # Default Values
//
//   - Config file: ~/.config/folio/config.toml
//   - Backend base URL: http://127.0.0.1:3000
//   - Request timeout: 10s
//   - Search debounce: 500ms
//   - Log file: ~/.local/state/folio/folio.log
//   - Session directory: ~/.config/folio
//
// # TOML Format
//
// Example config.toml:
//
//	base_url = "https://books.example.com"
//	request_timeout_seconds = 30
//	search_debounce_ms = 250
//	log_file = "~/.local/state/folio/folio.log"
//	session_dir = "~/.config/folio"
//
// All fields are optional. Tilde expansion is performed automatically.
//
// # Environment Overrides
//
// FOLIO_BASE_URL, FOLIO_REQUEST_TIMEOUT_SECONDS,
// FOLIO_SEARCH_DEBOUNCE_MS, FOLIO_LOG_FILE and FOLIO_SESSION_DIR
// override the corresponding file fields.
//
// # Error Handling
//
// A missing config file is NOT an error - defaults apply, so folio
// works out of the box against a local backend. Unreadable files,
// malformed TOML and malformed environment values fail Load.
package config
