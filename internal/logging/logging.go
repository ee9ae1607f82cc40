// Package logging builds the structured loggers used by pingme.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for file output.
const (
	MaxSizeMB  = 10
	MaxBackups = 5
	MaxAgeDays = 14
)

// Options configures [New].
type Options struct {
	// File is the log file path. Empty logs to Stderr.
	File string

	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// Stderr overrides the fallback writer. Defaults to os.Stderr.
	Stderr io.Writer
}

// DefaultFile is the log path used by the terminal dashboard, which cannot
// share stderr with the UI.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "pingme.log")
}

// New returns a JSON slog logger and a closer for its output. The closer is
// a no-op when logging to stderr.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
			Compress:   true,
		}
		w, closer = lj, lj
	} else {
		w = opts.Stderr
		if w == nil {
			w = os.Stderr
		}
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closer, nil
}

// ParseLevel maps a level name to a [slog.Level]. Matching is case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
