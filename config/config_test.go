package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/transport"
)

func validEndpoint() Endpoint {
	return Endpoint{
		Transport: transport.KindZMQ,
		Topology:  transport.TopologyBind,
		Address:   "tcp://*:5555",
		Mode:      ModeSync,
	}
}

func TestEndpointValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Endpoint)
		want   error
	}{
		{
			name:   "valid",
			mutate: func(*Endpoint) {},
		},
		{
			name:   "unknown transport",
			mutate: func(e *Endpoint) { e.Transport = "carrier-pigeon" },
			want:   errors.ErrUnknownTransport,
		},
		{
			name:   "unknown topology",
			mutate: func(e *Endpoint) { e.Topology = "broadcast" },
			want:   errors.ErrInvalidConfig,
		},
		{
			name:   "missing address",
			mutate: func(e *Endpoint) { e.Address = "" },
			want:   errors.ErrInvalidConfig,
		},
		{
			name:   "unknown mode",
			mutate: func(e *Endpoint) { e.Mode = "parallel" },
			want:   errors.ErrUnknownMode,
		},
		{
			name:   "negative buffer",
			mutate: func(e *Endpoint) { e.BufferSize = -1 },
			want:   errors.ErrInvalidConfig,
		},
		{
			name:   "mqtt passes endpoint validation",
			mutate: func(e *Endpoint) { e.Transport = transport.KindMQTT; e.Address = "tcp://broker:1883" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := validEndpoint()
			tt.mutate(&endpoint)
			err := endpoint.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want))
			assert.True(t, errors.IsUnsupportedConfig(err))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Version: "1.0.0",
		Node:    "relay-1",
		Endpoints: map[string]Endpoint{
			"ingress": validEndpoint(),
		},
	}
	require.NoError(t, cfg.Validate())

	t.Run("missing node", func(t *testing.T) {
		bad := *cfg
		bad.Node = ""
		assert.Error(t, bad.Validate())
	})

	t.Run("bad endpoint named in error", func(t *testing.T) {
		bad := *cfg
		broken := validEndpoint()
		broken.Address = ""
		bad.Endpoints = map[string]Endpoint{"egress": broken}
		err := bad.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "egress")
	})
}

func TestConfigEndpointLookup(t *testing.T) {
	cfg := &Config{
		Node:      "relay-1",
		Endpoints: map[string]Endpoint{"ingress": validEndpoint()},
	}

	endpoint, err := cfg.Endpoint("ingress")
	require.NoError(t, err)
	assert.Equal(t, "tcp://*:5555", endpoint.Address)

	_, err = cfg.Endpoint("missing")
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedConfig(err))
}

func TestLoad(t *testing.T) {
	doc := `
version: "1.0.0"
node: relay-1
metrics:
  enabled: true
  port: 9100
  path: /metrics
endpoints:
  ingress:
    transport: zmq
    topology: connect
    address: tcp://127.0.0.1:5555
    mode: async
    topics:
      - chock.sensor
      - chock.heartbeat
    buffer_size: 128
  egress:
    transport: nats
    topology: connect
    address: nats://127.0.0.1:4222
    mode: sync
`
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "relay-1", cfg.Node)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)

	ingress, err := cfg.Endpoint("ingress")
	require.NoError(t, err)
	assert.Equal(t, transport.KindZMQ, ingress.Transport)
	assert.Equal(t, transport.TopologyConnect, ingress.Topology)
	assert.Equal(t, ModeAsync, ingress.Mode)
	assert.Equal(t, []string{"chock.sensor", "chock.heartbeat"}, ingress.Topics)
	assert.Equal(t, 128, ingress.BufferSize)
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsUnsupportedConfig(err))
	})

	t.Run("broken yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("node: [unclosed"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsUnsupportedConfig(err))
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.yaml")
		doc := "node: n1\nendpoints:\n  bad:\n    transport: zmq\n    topology: bind\n    mode: sync\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})
}
