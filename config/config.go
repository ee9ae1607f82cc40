// Package config provides YAML configuration parsing for pingme.
//
// Example configuration:
//
//	interval: 30s
//	timeout: 5s
//	time_range: 60
//	log_file: /var/log/pingme.log
//	listen: ":8080"
//
//	endpoints:
//	  - https://example.com
//	  - api.example.com/health
//	  - url: https://${STATUS_HOST:-status.example.com}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// minInterval prevents accidental DoS of endpoints with overly aggressive polling.
	minInterval = 1 * time.Second

	minTimeout = 100 * time.Millisecond

	defaultInterval  = 60 * time.Second
	defaultTimeout   = 5 * time.Second
	defaultTimeRange = 60
	defaultListen    = ":8080"
)

// Config is the root configuration structure for pingme.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Interval is the time between probe cycles. Defaults to 60s.
	Interval Duration `yaml:"interval"`

	// Timeout is the per-attempt probe timeout. Defaults to 5s.
	Timeout Duration `yaml:"timeout"`

	// TimeRange is the chart and block-timeline window in minutes.
	// Defaults to 60.
	TimeRange int `yaml:"time_range"`

	// LogFile is the rotating log file. Supports environment variable
	// substitution.
	LogFile string `yaml:"log_file"`

	// Listen is the HTTP address used by "pingme serve". Defaults to ":8080".
	Listen string `yaml:"listen"`

	// Endpoints are the URLs to monitor, in order.
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// EndpointConfig is a single monitored URL.
//
// It supports two formats in YAML:
//
//	endpoints:
//	  - https://example.com
//	  - url: https://example.org
type EndpointConfig struct {
	// URL may omit the scheme, in which case http is used at probe time.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string
}

// UnmarshalYAML implements yaml.Unmarshaler for EndpointConfig.
func (e *EndpointConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.URL)
	case yaml.MappingNode:
		// temporary struct to avoid infinite recursion
		var raw struct {
			URL string `yaml:"url"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		e.URL = raw.URL
		return nil
	default:
		return fmt.Errorf("endpoint must be a string or object, got %v", node.Kind)
	}
}

// URLs returns the endpoint URLs in order.
func (c *Config) URLs() []string {
	urls := make([]string, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		urls[i] = ep.URL
	}
	return urls
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// LoadEnv loads environment files into the process environment before
// configuration is parsed. Existing variables are not overridden.
//
// With no arguments it loads ".env" and ignores its absence. Explicitly
// named files must exist.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// Default returns a config with every default applied and no endpoints.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in endpoint URLs and log_file.
// An empty document yields [Default].
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Interval == 0 {
		c.Interval = Duration(defaultInterval)
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(defaultTimeout)
	}
	if c.TimeRange == 0 {
		c.TimeRange = defaultTimeRange
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Interval.Duration() < minInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minInterval, c.Interval.Duration())
	}
	if c.Timeout.Duration() < minTimeout {
		return fmt.Errorf("timeout must be at least %s, got %s", minTimeout, c.Timeout.Duration())
	}
	if c.TimeRange < 1 {
		return fmt.Errorf("time_range must be at least 1 minute, got %d", c.TimeRange)
	}

	if c.LogFile != "" {
		expanded, err := expandEnvVars(c.LogFile)
		if err != nil {
			return fmt.Errorf("log_file: %w", err)
		}
		c.LogFile = expanded
	}

	for i := range c.Endpoints {
		ep := &c.Endpoints[i]

		expanded, err := expandEnvVars(ep.URL)
		if err != nil {
			return fmt.Errorf("endpoints[%d]: url: %w", i, err)
		}
		ep.URL = strings.TrimSpace(expanded)

		if ep.URL == "" {
			return fmt.Errorf("endpoints[%d]: url is required", i)
		}
		if err := ValidateURL(ep.URL); err != nil {
			return fmt.Errorf("endpoints[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidateURL checks that raw parses and, when it carries a scheme, that the
// scheme is http or https. Scheme-less URLs are accepted.
func ValidateURL(raw string) error {
	if !strings.Contains(raw, "://") {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
