package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-zeromq/zmq4"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
)

// ZMQ returns the ZeroMQ backend. PUB/SUB socket pair, bind or connect on
// either side, prefix topic filters.
//
// Slow joiner: a bind-mode publisher silently drops messages sent before a
// subscriber's connection is fully established. This is inherent to ZeroMQ
// PUB/SUB; callers doing fan-out setup must allow a join grace period
// before the first publish.
func ZMQ() Backend {
	return Backend{
		Kind:           KindZMQ,
		OpenPublisher:  openZMQPublisher,
		OpenSubscriber: openZMQSubscriber,
	}
}

// validateZMQAddress checks the endpoint scheme before any socket is
// created.
func validateZMQAddress(address string) error {
	for _, scheme := range []string{"tcp://", "ipc://", "inproc://"} {
		if strings.HasPrefix(address, scheme) {
			return nil
		}
	}
	return errors.WrapConnection(errors.ErrBadAddress,
		"ZMQ", "Open", fmt.Sprintf("address %q", address))
}

// attach binds or connects a socket according to topology.
func attachZMQSocket(sock zmq4.Socket, address string, topology Topology) error {
	switch topology {
	case TopologyBind:
		return sock.Listen(address)
	case TopologyConnect:
		return sock.Dial(address)
	default:
		return errors.ErrTopologyUnsupported
	}
}

func openZMQPublisher(_ context.Context, address string, topology Topology) (Conn, error) {
	if err := validateZMQAddress(address); err != nil {
		return nil, err
	}

	// The socket lives until Close, independent of the open context:
	// cancelling a later receive or publish context must not tear the
	// connection down.
	sock := zmq4.NewPub(context.Background())
	if err := attachZMQSocket(sock, address, topology); err != nil {
		_ = sock.Close()
		return nil, errors.WrapConnection(err, "ZMQPublisher", "Open",
			fmt.Sprintf("%s %q", topology, address))
	}

	return &zmqPubConn{sock: sock}, nil
}

// zmqPubConn is a publish-side ZeroMQ connection. Messages travel as two
// frames: topic, then payload bytes, so subscribers prefix-match on the
// topic frame alone.
type zmqPubConn struct {
	sock      zmq4.Socket
	closeOnce sync.Once
	closeErr  error
}

func (c *zmqPubConn) Send(topic string, data []byte) error {
	if err := c.sock.Send(zmq4.NewMsgFrom([]byte(topic), data)); err != nil {
		return errors.WrapTransport(err, "ZMQPublisher", "Send", "socket send")
	}
	return nil
}

func (c *zmqPubConn) Recv(context.Context) (Envelope, error) {
	return Envelope{}, errors.WrapTransport(fmt.Errorf("receive on publish-side connection"),
		"ZMQPublisher", "Recv", "role check")
}

func (c *zmqPubConn) Subscribe(string) error {
	return errors.WrapTransport(fmt.Errorf("subscribe on publish-side connection"),
		"ZMQPublisher", "Subscribe", "role check")
}

func (c *zmqPubConn) Unsubscribe(string) error {
	return errors.WrapTransport(fmt.Errorf("unsubscribe on publish-side connection"),
		"ZMQPublisher", "Unsubscribe", "role check")
}

func (c *zmqPubConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.sock.Close()
	})
	return c.closeErr
}

func openZMQSubscriber(_ context.Context, address string, topology Topology, opts SubscribeOptions) (Conn, error) {
	if err := validateZMQAddress(address); err != nil {
		return nil, err
	}

	sock := zmq4.NewSub(context.Background())
	if err := attachZMQSocket(sock, address, topology); err != nil {
		_ = sock.Close()
		return nil, errors.WrapConnection(err, "ZMQSubscriber", "Open",
			fmt.Sprintf("%s %q", topology, address))
	}

	topics := opts.Topics
	if len(topics) == 0 {
		// Receive everything until the caller narrows the filter set.
		topics = []string{""}
	}

	conn := &zmqSubConn{
		sock:    sock,
		box:     newMailbox(opts.BufferSize, opts.OnDrop),
		filters: make(map[string]struct{}, len(topics)),
	}

	for _, topic := range topics {
		if err := sock.SetOption(zmq4.OptionSubscribe, topic); err != nil {
			_ = sock.Close()
			return nil, errors.WrapConnection(err, "ZMQSubscriber", "Open",
				fmt.Sprintf("subscribe %q", topic))
		}
		conn.filters[topic] = struct{}{}
	}

	go conn.pump()
	return conn, nil
}

// zmqSubConn is a subscribe-side ZeroMQ connection. A pump goroutine
// drains the socket into a mailbox so Recv can honor per-call contexts
// without touching socket state.
type zmqSubConn struct {
	sock zmq4.Socket
	box  *mailbox

	mu      sync.Mutex
	filters map[string]struct{}

	closeOnce sync.Once
	closeErr  error
}

// pump moves envelopes from the socket to the mailbox until the socket is
// closed. The socket already prefix-filters, but the set may have shrunk
// since a frame was queued, so the current filter set is re-applied before
// delivery.
func (c *zmqSubConn) pump() {
	for {
		msg, err := c.sock.Recv()
		if err != nil {
			return
		}

		env, ok := splitZMQFrames(msg.Frames)
		if !ok {
			continue
		}
		if !matchesAny(env.Topic, c.currentFilters()) {
			continue
		}
		c.box.deliver(env)
	}
}

// splitZMQFrames maps multipart frames to an envelope: frame 0 is the
// topic, frame 1 the payload. Single-frame messages arrive from foreign
// publishers that inline the topic; they are passed through with an empty
// topic.
func splitZMQFrames(frames [][]byte) (Envelope, bool) {
	switch len(frames) {
	case 0:
		return Envelope{}, false
	case 1:
		return Envelope{Data: frames[0]}, true
	default:
		return Envelope{Topic: string(frames[0]), Data: frames[1]}, true
	}
}

func (c *zmqSubConn) currentFilters() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	filters := make([]string, 0, len(c.filters))
	for f := range c.filters {
		filters = append(filters, f)
	}
	return filters
}

func (c *zmqSubConn) Send(string, []byte) error {
	return errors.WrapTransport(fmt.Errorf("send on subscribe-side connection"),
		"ZMQSubscriber", "Send", "role check")
}

func (c *zmqSubConn) Recv(ctx context.Context) (Envelope, error) {
	return c.box.recv(ctx)
}

func (c *zmqSubConn) Subscribe(filter string) error {
	if err := c.sock.SetOption(zmq4.OptionSubscribe, filter); err != nil {
		return errors.WrapTransport(err, "ZMQSubscriber", "Subscribe", fmt.Sprintf("filter %q", filter))
	}
	c.mu.Lock()
	c.filters[filter] = struct{}{}
	c.mu.Unlock()
	return nil
}

func (c *zmqSubConn) Unsubscribe(filter string) error {
	if err := c.sock.SetOption(zmq4.OptionUnsubscribe, filter); err != nil {
		return errors.WrapTransport(err, "ZMQSubscriber", "Unsubscribe", fmt.Sprintf("filter %q", filter))
	}
	c.mu.Lock()
	delete(c.filters, filter)
	c.mu.Unlock()
	return nil
}

func (c *zmqSubConn) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.filters = make(map[string]struct{})
		c.mu.Unlock()

		c.box.close()
		c.closeErr = c.sock.Close()
	})
	return c.closeErr
}
