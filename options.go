package pingme

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jpalmerr/pingme/internal/stats"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	urls            []string
	pollingInterval time.Duration
	probeTimeout    time.Duration
	timeRange       stats.TimeRange
	logger          *slog.Logger
	now             func() time.Time
}

// Option is a function that configures a [Monitor] during construction.
//
// Options return an error if validation fails.
type Option func(*monitorConfig) error

// WithURLs registers endpoints for the given URLs, in order.
//
// Can be called multiple times. Each URL becomes its own endpoint, so
// duplicates are monitored twice.
func WithURLs(urls ...string) Option {
	return func(cfg *monitorConfig) error {
		cfg.urls = append(cfg.urls, urls...)
		return nil
	}
}

// WithPollingInterval sets how often all endpoints are probed.
// Defaults to 60 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithProbeTimeout sets the timeout of each HEAD or GET attempt.
// Defaults to 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithProbeTimeout(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("probe timeout must be positive")
		}
		cfg.probeTimeout = d
		return nil
	}
}

// WithTimeRangeMinutes selects the chart and block-timeline window.
// Defaults to 60 minutes.
//
// Returns an error if minutes is zero or negative.
func WithTimeRangeMinutes(minutes int) Option {
	return func(cfg *monitorConfig) error {
		if minutes <= 0 {
			return errors.New("time range must be positive")
		}
		cfg.timeRange = stats.Minutes(minutes)
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for derived views. Intended for
// tests.
func WithClock(now func() time.Time) Option {
	return func(cfg *monitorConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.now = now
		return nil
	}
}
