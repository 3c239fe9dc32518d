// Package logging builds the zerolog logger shared by the commands.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Service     string
	Environment string // "production" switches to JSON output.
	Level       string
	Out         io.Writer // Defaults to os.Stderr.
}

// New creates a logger with service, environment and hostname fields.
// Outside production the output is human-readable console text.
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	env := opts.Environment
	if env == "" {
		env = "development"
	}

	var w io.Writer = out
	if env != "production" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}

	return zerolog.New(zerolog.MultiLevelWriter(w)).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", opts.Service).
		Str("environment", env).
		Str("hostname", hostname()).
		Logger()
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
