// Package logger builds the process slog.Logger: a text or JSON handler on
// stderr carrying trace correlation ids, optionally fanned out to the
// OpenTelemetry logs pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures New.
type Options struct {
	Level  string
	Format string
	// OTel adds a bridge into the global OpenTelemetry LoggerProvider.
	OTel   bool
	Writer io.Writer
}

// New builds a logger and installs it as the slog default.
func New(opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	local := NewTraceContextHandler(newBaseHandler(w, opts.Format, level))

	var handler slog.Handler = local
	if opts.OTel {
		handler = NewMultiHandler(local, NewOTelHandler(level))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newBaseHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
