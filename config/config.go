package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/transport"
)

// Mode selects how an endpoint's blocking operations run: on a dedicated
// goroutine driven by timeouts (sync) or cooperatively suspended on a
// context (async).
type Mode string

// Execution modes.
const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// IsValid checks whether the value names a known execution mode.
func (m Mode) IsValid() bool {
	return m == ModeSync || m == ModeAsync
}

// Endpoint describes one publisher or subscriber: which transport to use,
// how to attach to it, and how the caller drives it. Endpoints are passed
// by value and therefore immutable once consumed by a factory.
type Endpoint struct {
	// Transport selects the backend, e.g. "zmq", "nats", "inproc".
	Transport transport.Kind `json:"transport" yaml:"transport"`

	// Topology selects bind or connect.
	Topology transport.Topology `json:"topology" yaml:"topology"`

	// Address is the transport-specific URI, e.g. "tcp://*:5555".
	Address string `json:"address" yaml:"address"`

	// Mode selects sync or async execution.
	Mode Mode `json:"mode" yaml:"mode"`

	// Topics is the initial subscription filter set. Subscriber only.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// BufferSize is the receive buffer capacity in messages. Zero
	// selects the transport default. Subscriber only.
	BufferSize int `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"`
}

// Validate checks the endpoint's enums and required fields. It does not
// check whether a backend is registered for the transport kind; that is
// the factory's decision.
func (e Endpoint) Validate() error {
	if !e.Transport.IsValid() {
		return errors.WrapUnsupportedConfig(errors.ErrUnknownTransport,
			"Endpoint", "Validate", fmt.Sprintf("transport %q", e.Transport))
	}
	if !e.Topology.IsValid() {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Endpoint", "Validate", fmt.Sprintf("topology %q", e.Topology))
	}
	if e.Address == "" {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Endpoint", "Validate", "address is required")
	}
	if !e.Mode.IsValid() {
		return errors.WrapUnsupportedConfig(errors.ErrUnknownMode,
			"Endpoint", "Validate", fmt.Sprintf("mode %q", e.Mode))
	}
	if e.BufferSize < 0 {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Endpoint", "Validate", fmt.Sprintf("buffer size %d", e.BufferSize))
	}
	return nil
}

// MetricsConfig configures the optional metrics HTTP server.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config is the process-level configuration for WheelChock services.
type Config struct {
	// Version is the configuration schema version, e.g. "1.0.0".
	Version string `json:"version" yaml:"version"`

	// Node identifies this process; used as the message source.
	Node string `json:"node" yaml:"node"`

	// Metrics configures the metrics HTTP server.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Endpoints maps endpoint names to their definitions.
	Endpoints map[string]Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Validate checks the whole configuration fail-fast.
func (c *Config) Validate() error {
	if c.Node == "" {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Config", "Validate", "node identity is required")
	}
	for name, endpoint := range c.Endpoints {
		if err := endpoint.Validate(); err != nil {
			return errors.Wrap(err, "Config", "Validate", fmt.Sprintf("endpoint %q", name))
		}
	}
	return nil
}

// Endpoint returns a named endpoint definition.
func (c *Config) Endpoint(name string) (Endpoint, error) {
	endpoint, ok := c.Endpoints[name]
	if !ok {
		return Endpoint{}, errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"Config", "Endpoint", fmt.Sprintf("endpoint %q not defined", name))
	}
	return endpoint, nil
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapUnsupportedConfig(err, "Config", "Load", fmt.Sprintf("read %q", path))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapUnsupportedConfig(err, "Config", "Load", "YAML parsing")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
