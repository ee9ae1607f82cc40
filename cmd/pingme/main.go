// Package main is the entry point for the pingme CLI.
//
// Usage:
//
//	pingme                          # Dashboard, endpoints from $PINGME_CONFIG or ./.ping
//	pingme https://example.com      # Dashboard monitoring a single URL
//	pingme -c pingme.yaml           # Dashboard with a config file
//	pingme serve -c pingme.yaml     # Headless monitor with the HTTP API
//	pingme validate -c pingme.yaml  # Validate configuration
//	pingme version                  # Show version info
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pingme"
	"github.com/jpalmerr/pingme/config"
	"github.com/jpalmerr/pingme/internal/logging"
	"github.com/jpalmerr/pingme/internal/tui"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd opens the terminal dashboard.
var rootCmd = &cobra.Command{
	Use:   "pingme [url]",
	Short: "Monitor server uptime from the terminal",
	Long: `pingme monitors HTTP endpoints and shows their uptime in a terminal dashboard.

Every endpoint is probed on a fixed interval (HEAD, falling back to GET).
The dashboard shows per-endpoint status, uptime percentage, average latency,
an uptime chart and a minute-by-minute status timeline.

Endpoints are taken from, in order:
  1. --config FILE
  2. the URL argument
  3. the file named by $PINGME_CONFIG
  4. ./.ping
More can be added from the dashboard by pressing 'a'.

Example config:
  interval: 60s
  endpoints:
    - https://example.com
    - api.example.com/health`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runDashboard,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this pingme binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pingme %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringP("config", "c", "", "path to config file")
	rootCmd.Flags().String("log-file", "", "log file (default $TMPDIR/pingme.log)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "environment files to load before reading config (default .env)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if logFile == "" {
		// the dashboard owns the terminal, so logs never go to stderr
		logFile = logging.DefaultFile()
	}

	level, _ := cmd.Flags().GetString("log-level")
	logger, closer, err := logging.New(logging.Options{File: logFile, Level: level})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	logger.Info("config loaded", "source", source, "endpoints", len(cfg.Endpoints))

	m, err := pingme.New(append(config.BuildOptions(cfg), pingme.WithLogger(logger))...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m.Start(ctx)
	defer m.Stop()

	return tui.Run(ctx, m)
}

// loadConfig loads env files, then resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, "", err
	}

	configFile, _ := cmd.Flags().GetString("config")
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}

	return resolveConfig(configFile, args, os.Getenv, wd)
}
