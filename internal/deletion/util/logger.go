package util

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

// InitLogger builds the process logger and installs it as the slog default.
func InitLogger(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	Logger = NewLogger(level, format, w)
	slog.SetDefault(Logger)
	return Logger
}

func GetLogger() *slog.Logger {
	if Logger == nil {
		InitLogger("info", "text", os.Stderr)
	}
	return Logger
}

// NewLogger creates a logger without touching the global default.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
