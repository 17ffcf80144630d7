package pubsub

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/config"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/metric"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/transport"
)

// Subscriber is the mode-independent contract both the sync and async
// variants satisfy. Receive is deliberately absent: its signature is
// what distinguishes the two modes.
type Subscriber interface {
	Open(ctx context.Context) error
	Subscribe(filter string) error
	Unsubscribe(filter string) error
	State() State
	Close() error
}

// subscriberCore holds everything the two Receive flavors share: the
// lifecycle state machine, the filter set, and the decode loop.
type subscriberCore struct {
	cfg     config.Endpoint
	backend transport.Backend
	codec   *message.Codec
	expect  message.Type
	logger  *slog.Logger
	metrics *metric.Metrics

	mu    sync.Mutex
	state State
	conn  transport.Conn
}

// open acquires the transport connection with the configured initial
// topic filters already applied, so no message published after Open
// returns is missed for filter reasons.
func (s *subscriberCore) open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateOpen:
		return errors.WrapLifecycle(errors.ErrAlreadyOpen, "Subscriber", "Open", "open subscriber")
	case StateClosed:
		return errors.WrapLifecycle(errors.ErrClosed, "Subscriber", "Open", "open subscriber")
	}

	opts := transport.SubscribeOptions{
		Topics:     s.cfg.Topics,
		BufferSize: s.cfg.BufferSize,
	}
	if s.metrics != nil {
		opts.OnDrop = func(topic string) {
			s.metrics.MessagesDropped.WithLabelValues(string(s.cfg.Transport), "buffer_full").Inc()
			s.logger.Debug("message dropped, receive buffer full", "topic", topic)
		}
	}
	conn, err := s.backend.OpenSubscriber(ctx, s.cfg.Address, s.cfg.Topology, opts)
	if err != nil {
		return err
	}
	s.conn = conn
	s.state = StateOpen

	if s.metrics != nil {
		s.metrics.OpenConnections.WithLabelValues(string(s.cfg.Transport), "subscriber").Inc()
	}
	s.logger.Info("subscriber open",
		"transport", s.cfg.Transport,
		"address", s.cfg.Address,
		"topology", s.cfg.Topology,
		"topics", s.cfg.Topics)
	return nil
}

// Subscribe adds a topic filter to the live subscription.
func (s *subscriberCore) Subscribe(filter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen("Subscribe", "add topic filter"); err != nil {
		return err
	}
	return s.conn.Subscribe(filter)
}

// Unsubscribe removes a topic filter from the live subscription.
func (s *subscriberCore) Unsubscribe(filter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen("Unsubscribe", "remove topic filter"); err != nil {
		return err
	}
	return s.conn.Unsubscribe(filter)
}

func (s *subscriberCore) requireOpen(method, action string) error {
	switch s.state {
	case StateCreated:
		return errors.WrapLifecycle(errors.ErrNotOpen, "Subscriber", method, action)
	case StateClosed:
		return errors.WrapLifecycle(errors.ErrClosed, "Subscriber", method, action)
	}
	return nil
}

// receive pulls envelopes off the connection until one decodes cleanly
// or ctx expires. Malformed envelopes are dropped and logged; they never
// surface to the caller. The comma-ok result is false exactly when the
// wait ended with nothing to deliver.
func (s *subscriberCore) receive(ctx context.Context) (message.Message, bool, error) {
	s.mu.Lock()
	if err := s.requireOpen("Receive", "receive message"); err != nil {
		s.mu.Unlock()
		return nil, false, err
	}
	conn := s.conn
	s.mu.Unlock()

	for {
		env, err := conn.Recv(ctx)
		if err != nil {
			switch {
			case stderrors.Is(err, context.DeadlineExceeded):
				return nil, false, nil
			case stderrors.Is(err, context.Canceled):
				// Cancellation abandons this attempt only; the
				// subscriber stays open.
				return nil, false, err
			case stderrors.Is(err, errors.ErrClosed):
				return nil, false, errors.WrapLifecycle(errors.ErrClosed, "Subscriber", "Receive", "receive message")
			default:
				return nil, false, errors.WrapTransport(err, "Subscriber", "Receive", "receive message")
			}
		}

		msg, err := s.codec.Decode(env.Data, s.expect)
		if err != nil {
			s.logger.Warn("dropping malformed message",
				"topic", env.Topic,
				"bytes", len(env.Data),
				"error", err)
			if s.metrics != nil {
				s.metrics.MessagesDropped.WithLabelValues(string(s.cfg.Transport), "malformed").Inc()
			}
			continue
		}

		if s.metrics != nil {
			s.metrics.MessagesReceived.WithLabelValues(string(s.cfg.Transport), msg.Type().Key()).Inc()
		}
		s.logger.Debug("received",
			"topic", env.Topic,
			"type", msg.Type().Key(),
			"sequence", msg.Meta().Sequence())
		return msg, true, nil
	}
}

// State reports the current lifecycle state.
func (s *subscriberCore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close releases the transport connection and moves the subscriber to
// CLOSED. Messages already buffered are discarded with the connection.
// Idempotent.
func (s *subscriberCore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return nil
	case StateCreated:
		s.state = StateClosed
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	s.state = StateClosed

	if s.metrics != nil {
		s.metrics.OpenConnections.WithLabelValues(string(s.cfg.Transport), "subscriber").Dec()
	}
	s.logger.Info("subscriber closed", "transport", s.cfg.Transport, "address", s.cfg.Address)

	if err != nil {
		return errors.WrapTransport(err, "Subscriber", "Close", "close transport connection")
	}
	return nil
}

// SyncSubscriber receives by blocking the calling goroutine.
// Not safe for concurrent use.
type SyncSubscriber struct {
	subscriberCore
}

// Open acquires the transport connection. Valid only from CREATED.
func (s *SyncSubscriber) Open(ctx context.Context) error {
	return s.open(ctx)
}

// Receive blocks until a message arrives or timeout elapses. A negative
// timeout blocks indefinitely; zero polls, draining anything already
// buffered without waiting. The bool result is false when the timeout
// expired with nothing to deliver; that is not an error.
func (s *SyncSubscriber) Receive(timeout time.Duration) (message.Message, bool, error) {
	if timeout < 0 {
		return s.receive(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.receive(ctx)
}

// AsyncSubscriber receives by suspending on a context, for callers
// multiplexing many subscriptions over few goroutines.
// Not safe for concurrent use.
type AsyncSubscriber struct {
	subscriberCore
}

// Open acquires the transport connection. Valid only from CREATED.
func (s *AsyncSubscriber) Open(ctx context.Context) error {
	return s.open(ctx)
}

// Receive waits until a message arrives or ctx ends. An expired
// deadline yields (nil, false, nil); an already-expired deadline makes
// this a poll that still drains buffered messages. Cancellation yields
// ctx.Err() and leaves the subscriber OPEN.
func (s *AsyncSubscriber) Receive(ctx context.Context) (message.Message, bool, error) {
	return s.receive(ctx)
}
