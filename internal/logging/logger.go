// Package logging builds the zerolog logger used by the CLI and the
// registry clients.
//
// Diagnostics go through the logger. Messages meant for the reviewer
// (matches found, prior requests, "no metadata") are printed by the
// command layer instead.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is the output format (json, console, auto)
	Format string

	// Output is where to write logs (stderr, stdout, discard, or file path)
	Output string

	// NoColor disables color output in console mode
	NoColor bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// New creates a logger from configuration.
func New(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewWithWriter(cfg, outputFor(cfg.Output))
}

// NewWithWriter creates a logger that writes to out regardless of cfg.Output.
func NewWithWriter(cfg *Config, out io.Writer) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level := ParseLevel(cfg.Level)

	logger := zerolog.New(formatWriter(cfg, out)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel parses a log level string, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(level); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}

func outputFor(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	case "stderr", "":
		return os.Stderr
	case "discard", "none":
		return io.Discard
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return os.Stderr
		}
		return file
	}
}

func formatWriter(cfg *Config, out io.Writer) io.Writer {
	format := strings.ToLower(cfg.Format)
	if format == "auto" || format == "" {
		format = "json"
		if isTerminal(out) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
