package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds a JSON logger writing to stdout, which the hosting
// platform collects as structured log entries.
func NewLogger(level string) *slog.Logger {
	return NewLoggerTo(os.Stdout, level)
}

func NewLoggerTo(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     levelFromString(level),
		AddSource: true,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func levelFromString(level string) slog.Leveler {
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
