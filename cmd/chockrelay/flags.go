package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	Ingress         string
	Egress          string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("CHOCKRELAY_CONFIG", "configs/relay.yaml"),
		"Path to configuration file (env: CHOCKRELAY_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("CHOCKRELAY_CONFIG", "configs/relay.yaml"),
		"Path to configuration file (env: CHOCKRELAY_CONFIG)")

	flag.StringVar(&cfg.Ingress, "ingress",
		getEnv("CHOCKRELAY_INGRESS", "ingress"),
		"Name of the endpoint to receive from (env: CHOCKRELAY_INGRESS)")

	flag.StringVar(&cfg.Egress, "egress",
		getEnv("CHOCKRELAY_EGRESS", "egress"),
		"Name of the endpoint to forward to (env: CHOCKRELAY_EGRESS)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("CHOCKRELAY_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: CHOCKRELAY_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("CHOCKRELAY_LOG_FORMAT", "json"),
		"Log format: json, text (env: CHOCKRELAY_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("CHOCKRELAY_SHUTDOWN_TIMEOUT", 10*time.Second),
		"Graceful shutdown timeout (env: CHOCKRELAY_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = printDetailedHelp

	flag.Parse()
	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - WheelChock message relay

Usage: %s [options]

Forwards every message received on the ingress endpoint to the egress
endpoint, re-validating each one on the way through.

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run with custom config
  %s --config=/etc/wheelchock/relay.yaml

  # Run with debug logging
  %s --log-level=debug --log-format=text

  # Validate configuration only
  %s --validate

Version: %s
`, os.Args[0], os.Args[0], os.Args[0], Version)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
