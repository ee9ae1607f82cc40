package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jpalmerr/pingme/config"
)

const (
	// configEnvVar names a config file used when no flag or URL is given.
	configEnvVar = "PINGME_CONFIG"

	// localConfigFile is picked up from the working directory as a last resort.
	localConfigFile = ".ping"
)

// resolveConfig picks the configuration source in priority order: an
// explicit config file, a single URL argument, $PINGME_CONFIG, then .ping in
// dir. With none of those it returns the defaults with no endpoints.
//
// The returned string describes the chosen source.
func resolveConfig(configFile string, args []string, getenv func(string) string, dir string) (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, configFile, nil
	}

	if len(args) > 0 {
		cfg := config.Default()
		if err := config.ValidateURL(args[0]); err != nil {
			return nil, "", fmt.Errorf("invalid url argument: %w", err)
		}
		cfg.Endpoints = []config.EndpointConfig{{URL: args[0]}}
		return cfg, "argument", nil
	}

	if path := getenv(configEnvVar); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load %s: %w", configEnvVar, err)
		}
		return cfg, path, nil
	}

	local := filepath.Join(dir, localConfigFile)
	if _, err := os.Stat(local); err == nil {
		cfg, err := config.Load(local)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load %s (expected YAML such as \"endpoints: [https://example.com]\"): %w", localConfigFile, err)
		}
		return cfg, local, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("failed to stat %s: %w", localConfigFile, err)
	}

	return config.Default(), "defaults", nil
}
