package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pingme/config"
)

// validateCmd validates a config file without starting the monitor.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a pingme configuration file without starting the monitor.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  pingme validate -c pingme.yaml
  pingme validate --config .ping`,
	SilenceUsage: true,
	RunE:         runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Interval:   %s\n", cfg.Interval.Duration())
	fmt.Printf("  Timeout:    %s\n", cfg.Timeout.Duration())
	fmt.Printf("  Time range: %dm\n", cfg.TimeRange)
	fmt.Printf("  Listen:     %s\n", cfg.Listen)
	fmt.Printf("  Endpoints:  %d\n", len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		fmt.Printf("    - %s\n", ep.URL)
	}

	return nil
}
