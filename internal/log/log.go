// Package log provides category-tagged structured logging for soundpad.
//
// The terminal belongs to the TUI, so log records go to a file. Until Init is
// called every record is discarded, which keeps tests and one-shot CLI
// commands quiet.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
)

// Category identifies the subsystem that emitted a record.
type Category string

// Log categories.
const (
	CatDB     Category = "db"
	CatUI     Category = "ui"
	CatConfig Category = "config"
	CatAudio  Category = "audio"
	CatUpload Category = "upload"
	CatWatch  Category = "watch"
)

// Options controls where and how verbosely records are written.
type Options struct {
	// Path is the log file. Empty keeps logging disabled.
	Path  string
	Debug bool
}

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens the log file and installs it as the destination for all
// categories. The returned function closes the file.
func Init(opts Options) (func() error, error) {
	if opts.Path == "" {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	SetOutput(f, level)

	return func() error {
		SetOutput(io.Discard, slog.LevelInfo)
		return f.Close()
	}, nil
}

// SetOutput replaces the destination writer. Tests use it to capture records.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug-level record.
func Debug(cat Category, msg string, args ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Info logs an info-level record.
func Info(cat Category, msg string, args ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Warn logs a warning.
func Warn(cat Category, msg string, args ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Error logs an error-level record.
func Error(cat Category, msg string, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat)}, args...)...)
}

// ErrorErr logs an error-level record with err attached under "error".
func ErrorErr(cat Category, msg string, err error, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "error", err}, args...)...)
}

// SafeGo runs fn in a goroutine and logs instead of crashing if it panics.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				Error(CatUI, "Recovered panic in goroutine",
					"goroutine", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
