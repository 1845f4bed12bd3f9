// Package testutils provides shared helpers for unit tests.
package testutils

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// NewTestLogger returns a logger that discards all output. Use it when a
// constructor demands a logger but the test does not inspect log records.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogEntry is a simplified captured log record.
type LogEntry map[string]interface{}

// CaptureHandler is a memory-backed slog.Handler for asserting on log output.
type CaptureHandler struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewCaptureHandler creates an empty CaptureHandler.
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{entries: make([]LogEntry, 0)}
}

// Enabled satisfies slog.Handler.
func (h *CaptureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle satisfies slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := LogEntry{
		"level":   r.Level.String(),
		"message": r.Message,
	}
	r.Attrs(func(attr slog.Attr) bool {
		entry[attr.Key] = attr.Value.Any()
		return true
	})
	h.entries = append(h.entries, entry)
	return nil
}

// WithAttrs satisfies slog.Handler.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

// WithGroup satisfies slog.Handler.
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	return h
}

// Entries returns a copy of all captured log entries.
func (h *CaptureHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
