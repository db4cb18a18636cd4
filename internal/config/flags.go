package config

import "flag"

// parseFlags defines and parses global CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for persisted tasks")
	fs.BoolVar(&cfg.Notifications, "notify", cfg.Notifications, "Enable reminder notifications")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")

	return fs.Parse(args)
}
