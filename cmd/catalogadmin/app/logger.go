package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

// logFileName is where logs go while the interactive table owns the terminal.
const logFileName = "catalogadmin.log"

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. LOG_LEVEL or CATALOGADMIN_LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)

	logConfig := &logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
		Fields:    logging.ParseFields(os.Getenv("LOG_FIELDS")),
	}

	return logging.NewLoggerFromConfig(logConfig)
}

// determineLogLevel determines the log level using clear precedence rules.
func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != normalizeLogLevel(config.LogLevel) {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}

	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	return "info"
}

// validateLogLevel returns the canonical form of level, or "info" when
// level is not recognized. Case is ignored and "warning" means "warn".
func validateLogLevel(level string) string {
	switch l := normalizeLogLevel(level); l {
	case "trace", "debug", "info", "warn", "error":
		return l
	}
	return "info"
}

func normalizeLogLevel(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "warning" {
		return "warn"
	}
	return l
}

// interactiveLogOutput returns where logs are written while the terminal
// table owns the screen. A log file configured explicitly is kept; terminal
// outputs move to a file in the user cache directory.
func interactiveLogOutput(config *Config) string {
	switch strings.ToLower(config.LogOutput) {
	case "", "stderr", "stdout":
	default:
		return config.LogOutput
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return "discard"
	}
	dir = filepath.Join(dir, constants.AppName)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return "discard"
	}
	return filepath.Join(dir, logFileName)
}
