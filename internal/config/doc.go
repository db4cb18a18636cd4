// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskdeck/taskdeck.toml or OS-specific config directory)
// 3. Project config file (taskdeck.toml or .taskdeck.toml in the current directory)
// 4. Environment variables (TASKDECK_*), with a local .env file read first
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskdeck/taskdeck.toml (preferred)
// - Windows: %APPDATA%\taskdeck\taskdeck.toml
// - macOS: ~/Library/Application Support/taskdeck/taskdeck.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskdeck/taskdeck.toml or ~/.config/taskdeck/taskdeck.toml
package config
