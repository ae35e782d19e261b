// Package logging builds the zerolog logger shared by reelswipe.
//
// The terminal belongs to the UI while it runs, so logs go to a file when
// one is configured and are discarded otherwise:
//
//	log, closeLog, err := logging.New(logging.Config{Level: "debug", File: "reelswipe.log"})
//	defer closeLog()
//	log.Info().Str("deck", path).Msg("deck loaded")
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error or disabled.
	Level string
	// Format is json or console.
	Format string
	// File receives log output. Empty discards logs.
	File string
	// Output overrides File when set; used by tests.
	Output io.Writer
}

// New returns a configured logger and a function that releases its output.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	out := cfg.Output
	closeFn := noop
	if out == nil {
		if cfg.File == "" {
			return zerolog.Nop(), noop, nil
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: true}
	}

	l := zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
	return l, closeFn, nil
}

// ParseLevel converts a level name, defaulting to info.
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
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.DurationFieldUnit = time.Millisecond
}
