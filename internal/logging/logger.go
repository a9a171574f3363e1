package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// AttachDB adds the system_logs sink to the global logger and returns the
// PGHandler so the caller can Stop it on shutdown.
func AttachDB(db *gorm.DB) *PGHandler {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdout, pg)))
	return pg
}
