package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/config"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/metric"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/transport"
)

// Publisher sends validated messages over one transport connection.
// It stamps every outgoing message with a monotonically increasing
// sequence number, starting at zero. Not safe for concurrent use.
type Publisher struct {
	cfg     config.Endpoint
	backend transport.Backend
	codec   *message.Codec
	logger  *slog.Logger
	metrics *metric.Metrics

	mu    sync.Mutex
	state State
	conn  transport.Conn
	seq   uint64
}

// Open acquires the transport connection. Valid only from CREATED.
func (p *Publisher) Open(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateOpen:
		return errors.WrapLifecycle(errors.ErrAlreadyOpen, "Publisher", "Open", "open publisher")
	case StateClosed:
		return errors.WrapLifecycle(errors.ErrClosed, "Publisher", "Open", "open publisher")
	}

	conn, err := p.backend.OpenPublisher(ctx, p.cfg.Address, p.cfg.Topology)
	if err != nil {
		return err
	}
	p.conn = conn
	p.state = StateOpen

	if p.metrics != nil {
		p.metrics.OpenConnections.WithLabelValues(string(p.cfg.Transport), "publisher").Inc()
	}
	p.logger.Info("publisher open",
		"transport", p.cfg.Transport,
		"address", p.cfg.Address,
		"topology", p.cfg.Topology)
	return nil
}

// Publish validates, encodes, and sends msg on topic. The sequence
// number is consumed once the message passes validation, so a transport
// failure after encoding leaves a gap receivers can detect. A failed
// send does not close the publisher.
func (p *Publisher) Publish(topic string, msg message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateCreated:
		return errors.WrapLifecycle(errors.ErrNotOpen, "Publisher", "Publish", "publish message")
	case StateClosed:
		return errors.WrapLifecycle(errors.ErrClosed, "Publisher", "Publish", "publish message")
	}

	data, err := p.codec.Encode(msg, p.seq)
	if err != nil {
		return err
	}
	seq := p.seq
	p.seq++

	if err := p.conn.Send(topic, data); err != nil {
		if p.metrics != nil {
			p.metrics.SendErrors.WithLabelValues(string(p.cfg.Transport)).Inc()
		}
		p.logger.Error("send failed",
			"transport", p.cfg.Transport,
			"topic", topic,
			"sequence", seq,
			"error", err)
		return errors.WrapTransport(err, "Publisher", "Publish", fmt.Sprintf("send message on topic %q", topic))
	}

	if p.metrics != nil {
		p.metrics.MessagesPublished.WithLabelValues(string(p.cfg.Transport), topic).Inc()
	}
	p.logger.Debug("published",
		"topic", topic,
		"type", msg.Type().Key(),
		"sequence", seq)
	return nil
}

// Sequence returns the next sequence number that Publish will assign.
func (p *Publisher) Sequence() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// State reports the current lifecycle state.
func (p *Publisher) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close releases the transport connection and moves the publisher to
// CLOSED. Closing from CREATED skips straight to CLOSED. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateClosed:
		return nil
	case StateCreated:
		p.state = StateClosed
		return nil
	}

	err := p.conn.Close()
	p.conn = nil
	p.state = StateClosed

	if p.metrics != nil {
		p.metrics.OpenConnections.WithLabelValues(string(p.cfg.Transport), "publisher").Dec()
	}
	p.logger.Info("publisher closed", "transport", p.cfg.Transport, "address", p.cfg.Address)

	if err != nil {
		return errors.WrapTransport(err, "Publisher", "Close", "close transport connection")
	}
	return nil
}
