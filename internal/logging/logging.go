// Package logging configures the process-wide structured logger. A
// *slog.Logger is injected into every component rather than called as a
// package-level global from deep inside business logic; New is called once
// in cmd/lansnoop and the result is threaded through explicitly.
package logging

import (
	"log/slog"
	"os"
)

// New builds the root logger. JSON output is the default, matching how a
// long-running daemon's output is expected to be consumed by a log
// collector; -v switches to a human-readable text handler on stderr.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if verbose {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
