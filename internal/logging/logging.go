// Package logging configures the zerolog logger shared by the server, the
// catalog service and the CLI.
//
// Usage:
//
//	logger := logging.Setup(logging.Config{Level: "debug", Format: "json"})
//	logger.Info().Str("driver", "sqlite").Msg("Store ready")
//
//	ctx = logging.WithLogger(ctx, &logger)
//	logging.FromContext(ctx).Debug().Msg("Using logger from context")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the level, format and destination of the logger.
type Config struct {
	Level  string
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

type contextKey int

const loggerKey contextKey = iota

// Setup builds a logger from cfg and installs it as the global zerolog logger.
// Unknown levels fall back to info.
func Setup(cfg Config) zerolog.Logger {
	logger := New(cfg)
	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger
	return logger
}

// New builds a logger from cfg without touching global state.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !strings.EqualFold(cfg.Format, FormatJSON) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, or returns the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return &log.Logger
}

// Writer adapts the global logger to an io.Writer for libraries that print
// preformatted lines, such as fiber's request logger.
func Writer(level zerolog.Level) io.Writer {
	return lineWriter{level: level}
}

type lineWriter struct {
	level zerolog.Level
}

func (w lineWriter) Write(p []byte) (int, error) {
	log.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
