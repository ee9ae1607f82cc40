package config

import (
	"github.com/jpalmerr/pingme"
)

// BuildOptions converts parsed configuration into monitor options.
//
// Endpoint URLs are registered in file order. Logging is not included;
// callers add [pingme.WithLogger] once the log file is opened.
func BuildOptions(cfg *Config) []pingme.Option {
	opts := []pingme.Option{
		pingme.WithPollingInterval(cfg.Interval.Duration()),
		pingme.WithProbeTimeout(cfg.Timeout.Duration()),
		pingme.WithTimeRangeMinutes(cfg.TimeRange),
	}

	if urls := cfg.URLs(); len(urls) > 0 {
		opts = append(opts, pingme.WithURLs(urls...))
	}

	return opts
}
