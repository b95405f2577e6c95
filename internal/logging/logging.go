// Package logging builds the process slog logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w at level. Verbose lowers the level
// to Debug.
func New(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	logger := New(w, level, verbose)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record. The TUI owns the
// terminal, so it logs nowhere unless a log file is configured.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
