// Package logging configures the structured logger shared by evychat
// components. Output goes to a file so it never interferes with the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures a logger
type Options struct {
	// Verbose lowers the level to debug
	Verbose bool
	// Mirror, when non-nil, receives a text copy of every record
	Mirror io.Writer
}

// New returns a JSON logger writing to w
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handler := slog.Handler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	if opts.Mirror != nil {
		handler = &fanout{handlers: []slog.Handler{
			handler,
			slog.NewTextHandler(opts.Mirror, &slog.HandlerOptions{Level: level}),
		}}
	}
	return slog.New(handler)
}

// Open returns a logger appending to the file at path. The returned
// closer must be closed at process exit.
func Open(path string, opts Options) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(f, opts), f, nil
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discard logger when l is nil
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
