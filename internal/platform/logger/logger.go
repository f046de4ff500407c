package logger

import (
	"log/slog"
	"os"
)

// New returns the structured logger used across services. JSON output keeps
// the audit-style key/value pairs machine-parseable.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
