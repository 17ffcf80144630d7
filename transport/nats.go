package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
)

// NATS returns the NATS core pub/sub backend. Brokered transport: both
// sides connect to a server, so only connect topology is supported. Topic
// filters are NATS subjects, matched exactly by the broker (NATS wildcards
// pass through unchanged). Order is preserved per publisher.
func NATS() Backend {
	return Backend{
		Kind:           KindNATS,
		OpenPublisher:  openNATSPublisher,
		OpenSubscriber: openNATSSubscriber,
	}
}

func dialNATS(address string, topology Topology, component string) (*nats.Conn, error) {
	if topology != TopologyConnect {
		return nil, errors.WrapConnection(errors.ErrTopologyUnsupported,
			component, "Open", fmt.Sprintf("topology %q", topology))
	}
	if !strings.HasPrefix(address, "nats://") && !strings.HasPrefix(address, "tls://") {
		return nil, errors.WrapConnection(errors.ErrBadAddress,
			component, "Open", fmt.Sprintf("address %q", address))
	}

	nc, err := nats.Connect(address)
	if err != nil {
		return nil, errors.WrapConnection(err, component, "Open",
			fmt.Sprintf("connect %q", address))
	}
	return nc, nil
}

func openNATSPublisher(_ context.Context, address string, topology Topology) (Conn, error) {
	nc, err := dialNATS(address, topology, "NATSPublisher")
	if err != nil {
		return nil, err
	}
	return &natsPubConn{nc: nc}, nil
}

type natsPubConn struct {
	nc        *nats.Conn
	closeOnce sync.Once
}

func (c *natsPubConn) Send(topic string, data []byte) error {
	if err := c.nc.Publish(topic, data); err != nil {
		return errors.WrapTransport(err, "NATSPublisher", "Send", "publish")
	}
	return nil
}

func (c *natsPubConn) Recv(context.Context) (Envelope, error) {
	return Envelope{}, errors.WrapTransport(fmt.Errorf("receive on publish-side connection"),
		"NATSPublisher", "Recv", "role check")
}

func (c *natsPubConn) Subscribe(string) error {
	return errors.WrapTransport(fmt.Errorf("subscribe on publish-side connection"),
		"NATSPublisher", "Subscribe", "role check")
}

func (c *natsPubConn) Unsubscribe(string) error {
	return errors.WrapTransport(fmt.Errorf("unsubscribe on publish-side connection"),
		"NATSPublisher", "Unsubscribe", "role check")
}

func (c *natsPubConn) Close() error {
	c.closeOnce.Do(func() {
		// Flush so messages already accepted by Send reach the server
		// before the connection drops.
		_ = c.nc.Flush()
		c.nc.Close()
	})
	return nil
}

func openNATSSubscriber(_ context.Context, address string, topology Topology, opts SubscribeOptions) (Conn, error) {
	nc, err := dialNATS(address, topology, "NATSSubscriber")
	if err != nil {
		return nil, err
	}

	topics := opts.Topics
	if len(topics) == 0 {
		// Receive everything, matching the empty-filter contract of the
		// other backends. ">" is the NATS full-wildcard subject.
		topics = []string{">"}
	}

	conn := &natsSubConn{
		nc:   nc,
		box:  newMailbox(opts.BufferSize, opts.OnDrop),
		subs: make(map[string]*nats.Subscription, len(topics)),
	}

	for _, topic := range topics {
		if err := conn.Subscribe(topic); err != nil {
			_ = conn.Close()
			return nil, errors.WrapConnection(err, "NATSSubscriber", "Open",
				fmt.Sprintf("subscribe %q", topic))
		}
	}

	return conn, nil
}

// natsSubConn holds one NATS subscription per topic filter. The broker
// does the matching; handlers deliver straight into the mailbox.
type natsSubConn struct {
	nc  *nats.Conn
	box *mailbox

	mu   sync.Mutex
	subs map[string]*nats.Subscription

	closeOnce sync.Once
}

func (c *natsSubConn) Send(string, []byte) error {
	return errors.WrapTransport(fmt.Errorf("send on subscribe-side connection"),
		"NATSSubscriber", "Send", "role check")
}

func (c *natsSubConn) Recv(ctx context.Context) (Envelope, error) {
	return c.box.recv(ctx)
}

func (c *natsSubConn) Subscribe(filter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.subs[filter]; exists {
		return nil
	}

	sub, err := c.nc.Subscribe(filter, func(msg *nats.Msg) {
		c.box.deliver(Envelope{Topic: msg.Subject, Data: msg.Data})
	})
	if err != nil {
		return errors.WrapTransport(err, "NATSSubscriber", "Subscribe",
			fmt.Sprintf("filter %q", filter))
	}

	c.subs[filter] = sub
	return nil
}

func (c *natsSubConn) Unsubscribe(filter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, exists := c.subs[filter]
	if !exists {
		return nil
	}
	delete(c.subs, filter)

	if err := sub.Unsubscribe(); err != nil {
		return errors.WrapTransport(err, "NATSSubscriber", "Unsubscribe",
			fmt.Sprintf("filter %q", filter))
	}
	return nil
}

func (c *natsSubConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		for filter, sub := range c.subs {
			_ = sub.Unsubscribe()
			delete(c.subs, filter)
		}
		c.mu.Unlock()

		c.box.close()
		c.nc.Close()
	})
	return nil
}
