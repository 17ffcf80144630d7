package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
)

// Inproc returns the process-local backend used for tests and
// single-binary deployments. Addresses name brokers inside the process;
// bind claims an address exclusively, connect attaches to it (in either
// arrival order, matching ZeroMQ semantics). Topic filters are prefix
// matches. Order is preserved.
func Inproc() Backend {
	return Backend{
		Kind:           KindInproc,
		OpenPublisher:  openInprocPublisher,
		OpenSubscriber: openInprocSubscriber,
	}
}

// inprocBrokers is the process-global broker registry keyed by address.
var inprocBrokers = struct {
	mu      sync.Mutex
	brokers map[string]*inprocBroker
}{brokers: make(map[string]*inprocBroker)}

// inprocBroker fans published envelopes out to attached subscribers.
type inprocBroker struct {
	address string

	mu    sync.RWMutex
	bound bool
	subs  map[*inprocSubConn]struct{}
}

// acquireBroker returns the broker for an address, creating it on first
// use. Bind topology claims exclusive ownership of the address; a second
// bind fails while the first is open.
func acquireBroker(address string, topology Topology, component string) (*inprocBroker, error) {
	if address == "" {
		return nil, errors.WrapConnection(errors.ErrBadAddress, component, "Open", "empty address")
	}
	if !topology.IsValid() {
		return nil, errors.WrapConnection(errors.ErrTopologyUnsupported,
			component, "Open", fmt.Sprintf("topology %q", topology))
	}

	inprocBrokers.mu.Lock()
	defer inprocBrokers.mu.Unlock()

	broker, ok := inprocBrokers.brokers[address]
	if !ok {
		broker = &inprocBroker{
			address: address,
			subs:    make(map[*inprocSubConn]struct{}),
		}
		inprocBrokers.brokers[address] = broker
	}

	if topology == TopologyBind {
		broker.mu.Lock()
		defer broker.mu.Unlock()
		if broker.bound {
			return nil, errors.WrapConnection(errors.ErrAddressInUse,
				component, "Open", fmt.Sprintf("bind %q", address))
		}
		broker.bound = true
	}

	return broker, nil
}

// release undoes an endpoint's attachment and removes the broker when the
// last endpoint leaves, so addresses become rebindable.
func (b *inprocBroker) release(bound bool, sub *inprocSubConn) {
	inprocBrokers.mu.Lock()
	defer inprocBrokers.mu.Unlock()

	b.mu.Lock()
	if bound {
		b.bound = false
	}
	if sub != nil {
		delete(b.subs, sub)
	}
	empty := !b.bound && len(b.subs) == 0
	b.mu.Unlock()

	if empty {
		delete(inprocBrokers.brokers, b.address)
	}
}

// publish fans an envelope out to every subscriber whose filter set
// matches the topic. Payload bytes are copied per subscriber so no two
// endpoints share a buffer.
func (b *inprocBroker) publish(topic string, data []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if !matchesAny(topic, sub.currentFilters()) {
			continue
		}
		sub.box.deliver(Envelope{Topic: topic, Data: append([]byte(nil), data...)})
	}
}

func (b *inprocBroker) attach(sub *inprocSubConn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[sub] = struct{}{}
}

func openInprocPublisher(_ context.Context, address string, topology Topology) (Conn, error) {
	broker, err := acquireBroker(address, topology, "InprocPublisher")
	if err != nil {
		return nil, err
	}
	return &inprocPubConn{broker: broker, bound: topology == TopologyBind}, nil
}

type inprocPubConn struct {
	broker    *inprocBroker
	bound     bool
	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

func (c *inprocPubConn) Send(topic string, data []byte) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return errors.WrapTransport(errors.ErrClosed, "InprocPublisher", "Send", "connection check")
	}

	c.broker.publish(topic, data)
	return nil
}

func (c *inprocPubConn) Recv(context.Context) (Envelope, error) {
	return Envelope{}, errors.WrapTransport(fmt.Errorf("receive on publish-side connection"),
		"InprocPublisher", "Recv", "role check")
}

func (c *inprocPubConn) Subscribe(string) error {
	return errors.WrapTransport(fmt.Errorf("subscribe on publish-side connection"),
		"InprocPublisher", "Subscribe", "role check")
}

func (c *inprocPubConn) Unsubscribe(string) error {
	return errors.WrapTransport(fmt.Errorf("unsubscribe on publish-side connection"),
		"InprocPublisher", "Unsubscribe", "role check")
}

func (c *inprocPubConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.broker.release(c.bound, nil)
	})
	return nil
}

func openInprocSubscriber(_ context.Context, address string, topology Topology, opts SubscribeOptions) (Conn, error) {
	broker, err := acquireBroker(address, topology, "InprocSubscriber")
	if err != nil {
		return nil, err
	}

	topics := opts.Topics
	if len(topics) == 0 {
		topics = []string{""}
	}

	conn := &inprocSubConn{
		broker:  broker,
		bound:   topology == TopologyBind,
		box:     newMailbox(opts.BufferSize, opts.OnDrop),
		filters: make(map[string]struct{}, len(topics)),
	}
	for _, topic := range topics {
		conn.filters[topic] = struct{}{}
	}

	broker.attach(conn)
	return conn, nil
}

type inprocSubConn struct {
	broker *inprocBroker
	bound  bool
	box    *mailbox

	mu      sync.Mutex
	filters map[string]struct{}

	closeOnce sync.Once
}

func (c *inprocSubConn) currentFilters() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	filters := make([]string, 0, len(c.filters))
	for f := range c.filters {
		filters = append(filters, f)
	}
	return filters
}

func (c *inprocSubConn) Send(string, []byte) error {
	return errors.WrapTransport(fmt.Errorf("send on subscribe-side connection"),
		"InprocSubscriber", "Send", "role check")
}

func (c *inprocSubConn) Recv(ctx context.Context) (Envelope, error) {
	return c.box.recv(ctx)
}

func (c *inprocSubConn) Subscribe(filter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[filter] = struct{}{}
	return nil
}

func (c *inprocSubConn) Unsubscribe(filter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.filters, filter)
	return nil
}

func (c *inprocSubConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.filters = make(map[string]struct{})
		c.mu.Unlock()

		c.box.close()
		c.broker.release(c.bound, c)
	})
	return nil
}
