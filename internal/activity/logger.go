// Package activity appends human-readable audit entries whenever task
// state changes.
package activity

import (
	"context"
	"fmt"
	"log"
	"os"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

// Logger appends entries to the owner's activity log. The log is
// append-only: entries are never edited or removed by the client.
type Logger struct {
	store   store.Store
	console *log.Logger
}

// NewLogger creates a Logger writing through the given store.
func NewLogger(s store.Store) *Logger {
	return &Logger{
		store:   s,
		console: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetConsole replaces the operator console logger (for testing).
func (l *Logger) SetConsole(console *log.Logger) {
	l.console = console
}

// Logf appends one formatted entry. Append failures are reported to the
// operator console and never fail the mutation that triggered them.
func (l *Logger) Logf(ctx context.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	if err := l.store.AppendLog(ctx, message); err != nil {
		l.console.Printf("error appending activity log: %v", err)
	}
}

// Recent returns the owner's activity log, newest-first.
func (l *Logger) Recent(ctx context.Context) ([]model.ActivityEntry, error) {
	return l.store.Logs(ctx)
}

// Watch opens a live subscription on the activity log.
func (l *Logger) Watch(ctx context.Context) (store.LogWatcher, error) {
	return l.store.WatchLogs(ctx)
}
