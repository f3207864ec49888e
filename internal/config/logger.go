package config

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// InitLogger builds the run logger. In debug mode diagnostics go to stdout at
// debug level, otherwise to stderr at the configured level. Every record
// carries the run_id of the invocation.
func InitLogger(cfg LoggingConfig, debug bool, stdout, stderr io.Writer) *slog.Logger {
	var handler slog.Handler

	// Set log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	out := stderr
	if debug {
		level = slog.LevelDebug
		out = stdout
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Set format
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler).With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	return logger
}
