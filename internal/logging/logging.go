// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// Options configures Init.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
	// Path is the log file. Empty means Writer is used.
	Path string
	// Writer receives records when Path is empty. Nil discards them.
	Writer io.Writer
}

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init installs a text logger and returns a closer for the underlying file.
func Init(opts Options) (io.Closer, error) {
	var w io.Writer = io.Discard
	var closer io.Closer = nopCloser{}

	switch {
	case opts.Path != "":
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
		}
		w, closer = f, f
	case opts.Writer != nil:
		w = opts.Writer
	}

	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)}))
	current.Store(l)
	return closer, nil
}

// SetLogger replaces the process logger. Tests use this to capture output.
func SetLogger(l *slog.Logger) {
	if l != nil {
		current.Store(l)
	}
}

// L returns the process logger.
func L() *slog.Logger {
	return current.Load()
}

// Debug logs with slog-style key/value pairs.
func Debug(msg string, args ...any) { L().Debug(msg, args...) }

// Info logs with slog-style key/value pairs.
func Info(msg string, args ...any) { L().Info(msg, args...) }

// Warn logs with slog-style key/value pairs.
func Warn(msg string, args ...any) { L().Warn(msg, args...) }

// Error logs with slog-style key/value pairs.
func Error(msg string, args ...any) { L().Error(msg, args...) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
