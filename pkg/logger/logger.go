// Package logger builds the slog.Logger shared by the CLI, the HTTP server
// and the statistics pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the level and output format of a logger.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text or json
	AddSource bool
}

// New creates a logger writing to stderr.
func New(opts Options) *slog.Logger {
	return NewWithWriter(os.Stderr, opts)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, opts Options) *slog.Logger {
	ho := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, ho)
	} else {
		handler = slog.NewTextHandler(w, ho)
	}

	return slog.New(handler)
}

// ParseLevel converts a level name to slog.Level, ignoring case.
// Unknown names return LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component tags every record of l with the emitting component.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With("component", name)
}
