// Package logging builds the structured logger used across the pipeline.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text slog.Logger writing to w (stderr when nil).
// Debug enables debug-level records and source locations.
func New(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	})
	return slog.New(h)
}
