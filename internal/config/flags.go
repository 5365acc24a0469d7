package config

import "flag"

// parseFlags registers the global flags on fs, parses args, and applies
// any flags the user actually set. Flags override every other source.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	tasksFile := fs.String("file", "", "Path to the JSON task file")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")
	logFormat := fs.String("log-format", "", "Log format (text|json)")
	logTimestamps := fs.Bool("log-timestamps", false, "Include timestamps in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *tasksFile != "" {
		cfg.TasksFile = *tasksFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "log-timestamps" {
			cfg.LogTimestamps = *logTimestamps
		}
	})

	return nil
}
