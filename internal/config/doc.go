// Package config loads reviewdeck's settings.
//
// # Configuration Discovery
//
// Load resolves settings in this order, later steps winning:
//
//  1. Built-in defaults
//  2. The TOML file at the given path, or ~/.config/reviewdeck/config.toml
//  3. REVIEWDECK_* environment variables
//
// A missing file is not an error. Unknown TOML keys are ignored.
//
// # Default Values
//
//   - api_base: http://127.0.0.1:8000 (a bare host:port gets http://)
//   - log_file: ~/.local/state/reviewdeck/reviewdeck.log
//   - log_level: info (debug, info, warn, error)
//   - roster_refresh_seconds: 0 (refresh only at start and after ingest or delete)
//   - topic_words: 5
//
// # Environment Overrides
//
//   - REVIEWDECK_API_BASE
//   - REVIEWDECK_LOG_FILE
//   - REVIEWDECK_LOG_LEVEL
//   - REVIEWDECK_ROSTER_REFRESH_SECONDS
//   - REVIEWDECK_TOPIC_WORDS
//
// # Validation
//
// After merging, Validate checks api_base is a URL, log_level is known, the
// refresh interval is not negative, and topic_words is between 1 and 20. A
// failure names the offending TOML key.
package config
