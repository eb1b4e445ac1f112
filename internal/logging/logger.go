// Package logging provides structured logging configuration using log/slog.
//
// Logs go to stderr so that the summary printed on stdout stays clean for
// scripts. When a log file is configured, every line is also appended there.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/railops/rakeprep/internal/config"
)

// nopCloser is returned when no log file was opened.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds a logger from cfg and installs it as the slog default.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// The returned io.Closer closes the log file, if any; callers should defer it.
func Setup(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var (
		out    = stderr
		closer io.Closer = nopCloser{}
	)

	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(stderr, file)
		closer = file
	}

	logger := New(out, cfg.Level, cfg.Format)
	slog.SetDefault(logger)

	return logger, closer, nil
}

// New returns a logger writing to w without touching the slog default.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
