package config

// Default values.
const (
	DefaultDataDir   = "~/.taskdeck"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// DataDir is where the persisted task blob lives.
	DataDir string `toml:"data_dir"`

	// Notifications toggles reminder notifications entirely.
	Notifications bool `toml:"notifications"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Notifications = true
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
}
