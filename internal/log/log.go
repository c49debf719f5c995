// Package log configures structured logging for kouken using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Setup configures the default slog logger on stderr.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
func Setup(verbose, quiet bool) {
	SetupWriter(os.Stderr, verbose, quiet)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, verbose, quiet bool) {
	var level slog.Level
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
