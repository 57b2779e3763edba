// Package config loads the aurad TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/aurad/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:4943"
//	poll_interval = "15s"
//	connect_timeout = "10s"
//	request_timeout = "8s"
//	update_refresh_delay = "2s"
//	cycle_refresh_delay = "1s"
//	log_file = "~/.local/state/aurad/aurad.log"
//	log_level = "info"
//	export_dir = "~"
//
// Every field is optional. Durations use Go duration syntax and must be
// positive. Tilde expansion is performed for log_file and export_dir.
//
// # Error Handling
//
// Missing config files are NOT an error. Load returns errors for
// unreadable files, TOML syntax errors, and malformed durations.
package config
