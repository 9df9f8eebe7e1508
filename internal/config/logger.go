package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LevelFor maps a configured level name to a zerolog level. Unknown or empty
// names fall back to info.
func LevelFor(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// NewLogger builds the process logger for command (e.g. "api", "migrate").
// Every line carries the ledger timezone so business dates in the logs can be
// read without the deployment's environment at hand.
func NewLogger(cfg *Config, command string) zerolog.Logger {
	return newLogger(cfg, command, os.Stdout)
}

func newLogger(cfg *Config, command string, out io.Writer) zerolog.Logger {
	level := LevelFor(cfg.Logger.Level)
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.Logger.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().
		Timestamp().
		Str("app", "till-ledger").
		Str("command", command).
		Str("timezone", cfg.Ledger.Timezone)
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}
