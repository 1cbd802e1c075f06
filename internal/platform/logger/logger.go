package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a structured logger configured from LOG_LEVEL and LOG_FORMAT.
// JSON output is the default outside development so log shippers get
// machine-readable lines.
func New(environment string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if format == "" && environment == "development" {
		format = "text"
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
