// Package main implements chockrelay, a bridge process that forwards
// WheelChock telemetry from one transport endpoint to another. A typical
// deployment runs it between the sensor network (zmq on the vehicle bus)
// and an operations console (nats in the control room), re-validating
// every message on the way through.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/config"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/metric"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/pubsub"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/telemetry"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "chockrelay"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Relay failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting chockrelay",
		"version", Version,
		"config_path", cliCfg.ConfigPath,
		"ingress", cliCfg.Ingress,
		"egress", cliCfg.Egress)

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	ingress, err := cfg.Endpoint(cliCfg.Ingress)
	if err != nil {
		return fmt.Errorf("ingress endpoint: %w", err)
	}
	egress, err := cfg.Endpoint(cliCfg.Egress)
	if err != nil {
		return fmt.Errorf("egress endpoint: %w", err)
	}

	registry := message.NewRegistry()
	if err := telemetry.Register(registry); err != nil {
		return fmt.Errorf("register telemetry schemas: %w", err)
	}

	factoryOpts := []pubsub.FactoryOption{pubsub.WithLogger(logger)}

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer, err = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return fmt.Errorf("create metrics server: %w", err)
		}
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		slog.Info("Metrics server listening", "address", metricsServer.Address())
		factoryOpts = append(factoryOpts, pubsub.WithMetrics(metricsServer.Metrics()))
	}

	factory := pubsub.NewFactory(registry, factoryOpts...)

	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	err = relay(signalCtx, factory, ingress, egress)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cliCfg.ShutdownTimeout)
		defer cancel()
		if stopErr := metricsServer.Stop(shutdownCtx); stopErr != nil {
			slog.Error("Metrics server shutdown failed", "error", stopErr)
		}
	}

	if err != nil {
		return err
	}
	slog.Info("chockrelay shutdown complete")
	return nil
}

// relay forwards messages from the ingress endpoint to the egress
// endpoint until ctx is cancelled. Malformed ingress traffic never
// reaches here; the subscriber drops it internally.
func relay(ctx context.Context, factory *pubsub.Factory, ingress, egress config.Endpoint) error {
	sub, err := factory.NewAsyncSubscriber(ingress)
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	pub, err := factory.NewPublisher(egress)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}

	if err := sub.Open(ctx); err != nil {
		return fmt.Errorf("open subscriber: %w", err)
	}
	defer func() {
		if err := sub.Close(); err != nil {
			slog.Error("Close subscriber failed", "error", err)
		}
	}()

	if err := pub.Open(ctx); err != nil {
		return fmt.Errorf("open publisher: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			slog.Error("Close publisher failed", "error", err)
		}
	}()

	slog.Info("Relay running",
		"from", ingress.Address,
		"to", egress.Address)

	var forwarded uint64
	for {
		msg, ok, err := sub.Receive(ctx)
		if err != nil {
			if stderrors.Is(err, context.Canceled) {
				slog.Info("Received shutdown signal", "forwarded", forwarded)
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}
		if !ok {
			continue
		}

		topic := msg.Type().Key()
		if err := pub.Publish(topic, msg); err != nil {
			slog.Error("Forward failed",
				"topic", topic,
				"type", msg.Type().Key(),
				"error", err)
			continue
		}
		forwarded++
		if forwarded%1000 == 0 {
			slog.Info("Relay progress", "forwarded", forwarded)
		}
	}
}
