package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pingme"
	"github.com/jpalmerr/pingme/config"
	"github.com/jpalmerr/pingme/internal/logging"
	"github.com/jpalmerr/pingme/internal/server"
)

const (
	shutdownTimeout = 10 * time.Second
)

// serveCmd runs the monitor without the dashboard and exposes the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve [url]",
	Short: "Run headless with the HTTP API",
	Long: `Run the monitor without the terminal dashboard.

The server will:
  - Resolve endpoints the same way as the dashboard
  - Start probing all configured endpoints
  - Serve the JSON API and an SSE stream on the configured address

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  pingme serve -c pingme.yaml
  pingme serve --listen 127.0.0.1:9090 https://example.com`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().String("listen", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().String("log-file", "", "log file (default stderr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile == "" {
		logFile = cfg.LogFile
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger, closer, err := logging.New(logging.Options{File: logFile, Level: level})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = cfg.Listen
	}

	logger.Info("config loaded",
		"source", source,
		"endpoints", len(cfg.Endpoints),
	)

	m, err := pingme.New(append(config.BuildOptions(cfg), pingme.WithLogger(logger))...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(m, listen, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	m.Start(ctx)

	// foreground loop - blocks until context cancelled
	m.Run(ctx, pingme.DefaultRefreshInterval)

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		logger.Info("shutdown complete")
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timed out",
			"timeout", shutdownTimeout.String(),
			"action", "forcing exit",
		)
	}
	return nil
}
