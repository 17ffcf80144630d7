package pubsub

import (
	"fmt"
	"log/slog"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/config"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/metric"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/transport"
)

// Factory builds publishers and subscribers from endpoint configuration.
// Construction is cheap and validates only; no transport resource is
// acquired until Open. Unknown transport kinds or execution modes are
// rejected here, before anything could leak.
type Factory struct {
	registry *message.Registry
	codec    *message.Codec
	backends map[transport.Kind]transport.Backend
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// FactoryOption customizes a Factory at construction time.
type FactoryOption func(*Factory)

// WithLogger sets the logger handed to every endpoint the factory
// creates. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics wires a metrics set into every endpoint the factory
// creates. Without it, endpoints record nothing.
func WithMetrics(m *metric.Metrics) FactoryOption {
	return func(f *Factory) {
		f.metrics = m
	}
}

// WithBackend registers or replaces a transport backend. Applications
// use it to plug in transports beyond the built-in set.
func WithBackend(b transport.Backend) FactoryOption {
	return func(f *Factory) {
		f.backends[b.Kind] = b
	}
}

// NewFactory builds a factory over registry with the built-in zmq, nats,
// and inproc backends installed.
func NewFactory(registry *message.Registry, opts ...FactoryOption) *Factory {
	f := &Factory{
		registry: registry,
		codec:    message.NewCodec(registry),
		backends: map[transport.Kind]transport.Backend{
			transport.KindZMQ:    transport.ZMQ(),
			transport.KindNATS:   transport.NATS(),
			transport.KindInproc: transport.Inproc(),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SubscriberOption customizes a single subscriber at creation time.
type SubscriberOption func(*subscriberCore)

// WithExpectedType pins the subscriber to one message type. Incoming
// messages of a different schema family are dropped as malformed; a
// different version of the same family goes through the registry's
// migrations. The zero Type (the default) accepts anything registered.
func WithExpectedType(t message.Type) SubscriberOption {
	return func(s *subscriberCore) {
		s.expect = t
	}
}

// NewPublisher builds a publisher for cfg in the CREATED state.
func (f *Factory) NewPublisher(cfg config.Endpoint) (*Publisher, error) {
	backend, err := f.resolve(cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{
		cfg:     cfg,
		backend: backend,
		codec:   f.codec,
		logger:  f.logger.With("component", "publisher", "transport", cfg.Transport),
		metrics: f.metrics,
	}, nil
}

// NewSubscriber builds a subscriber for cfg in the CREATED state,
// dispatching on cfg.Mode. The concrete type is *SyncSubscriber or
// *AsyncSubscriber; callers that care about the Receive signature use
// the mode-specific constructors instead.
func (f *Factory) NewSubscriber(cfg config.Endpoint, opts ...SubscriberOption) (Subscriber, error) {
	switch cfg.Mode {
	case config.ModeSync:
		return f.NewSyncSubscriber(cfg, opts...)
	case config.ModeAsync:
		return f.NewAsyncSubscriber(cfg, opts...)
	default:
		return nil, errors.WrapUnsupportedConfig(
			fmt.Errorf("%w: mode %q", errors.ErrUnknownMode, cfg.Mode),
			"Factory", "NewSubscriber", "select execution mode")
	}
}

// NewSyncSubscriber builds a blocking-mode subscriber for cfg.
func (f *Factory) NewSyncSubscriber(cfg config.Endpoint, opts ...SubscriberOption) (*SyncSubscriber, error) {
	sub := &SyncSubscriber{}
	if err := f.initCore(&sub.subscriberCore, cfg, opts); err != nil {
		return nil, err
	}
	return sub, nil
}

// NewAsyncSubscriber builds a context-driven subscriber for cfg.
func (f *Factory) NewAsyncSubscriber(cfg config.Endpoint, opts ...SubscriberOption) (*AsyncSubscriber, error) {
	sub := &AsyncSubscriber{}
	if err := f.initCore(&sub.subscriberCore, cfg, opts); err != nil {
		return nil, err
	}
	return sub, nil
}

// initCore fills a subscriber's embedded core in place. The core carries
// a mutex, so it is never copied after construction.
func (f *Factory) initCore(core *subscriberCore, cfg config.Endpoint, opts []SubscriberOption) error {
	backend, err := f.resolve(cfg)
	if err != nil {
		return err
	}
	core.cfg = cfg
	core.backend = backend
	core.codec = f.codec
	core.logger = f.logger.With("component", "subscriber", "transport", cfg.Transport)
	core.metrics = f.metrics
	for _, opt := range opts {
		opt(core)
	}
	return nil
}

// resolve validates cfg and looks up its transport backend. A kind with
// no registered backend, mqtt for instance, fails here with an
// unsupported-configuration error and no resource is created.
func (f *Factory) resolve(cfg config.Endpoint) (transport.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return transport.Backend{}, err
	}
	backend, ok := f.backends[cfg.Transport]
	if !ok {
		return transport.Backend{}, errors.WrapUnsupportedConfig(
			fmt.Errorf("%w: %q has no registered backend", errors.ErrUnknownTransport, cfg.Transport),
			"Factory", "resolve", "select transport backend")
	}
	return backend, nil
}
