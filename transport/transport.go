package transport

import (
	"context"
)

// Kind identifies a transport implementation.
type Kind string

// Known transport kinds. KindMQTT is reserved for a future brokered
// backend; no implementation is registered for it yet, so factories
// reject it with an unsupported-configuration error.
const (
	KindZMQ    Kind = "zmq"
	KindNATS   Kind = "nats"
	KindInproc Kind = "inproc"
	KindMQTT   Kind = "mqtt"
)

// IsValid checks whether the value names a known transport kind.
// A valid kind may still have no registered backend.
func (k Kind) IsValid() bool {
	switch k {
	case KindZMQ, KindNATS, KindInproc, KindMQTT:
		return true
	default:
		return false
	}
}

// Topology describes how an endpoint establishes its connection: bind
// listens for peers, connect reaches out to a bound peer or broker.
type Topology string

// Topology modes.
const (
	TopologyBind    Topology = "bind"
	TopologyConnect Topology = "connect"
)

// IsValid checks whether the value names a known topology mode.
func (t Topology) IsValid() bool {
	return t == TopologyBind || t == TopologyConnect
}

// Envelope is the raw unit crossing the transport boundary: an opaque
// routing topic and the bytes produced by the schema layer.
type Envelope struct {
	Topic string
	Data  []byte
}

// Conn is the minimal capability surface every transport connection
// supplies. A Conn is exclusively owned by one publisher or subscriber
// instance and is not safe for concurrent calls without external
// synchronization.
//
// Publish-side connections support Send and Close; subscribe-side
// connections support Recv, Subscribe, Unsubscribe, and Close. Calling an
// operation the connection's role does not support returns a transport
// error.
type Conn interface {
	// Send transmits topic-framed bytes. Best effort: for bind-mode
	// publishers, messages sent before any subscriber has joined may be
	// silently dropped by the transport (slow joiner).
	Send(topic string, data []byte) error

	// Recv returns the next envelope matching the subscription filter
	// set. It blocks until an envelope is available, the context is done,
	// or the connection is closed. Envelopes already buffered are
	// delivered before blocking, so an expired context still drains the
	// buffer (non-blocking poll). Context cancellation does not close the
	// connection and does not discard buffered envelopes.
	Recv(ctx context.Context) (Envelope, error)

	// Subscribe adds a topic filter to the subscription filter set.
	Subscribe(filter string) error

	// Unsubscribe removes a topic filter from the subscription filter set.
	Unsubscribe(filter string) error

	// Close releases all transport resources. Idempotent.
	Close() error
}

// SubscribeOptions configures a subscribe-side connection at open time.
type SubscribeOptions struct {
	// Topics is the initial subscription filter set. Empty means
	// receive everything the transport delivers for an empty filter.
	Topics []string

	// BufferSize is the receive buffer capacity in envelopes. Zero
	// selects DefaultBufferSize. When the buffer is full the oldest
	// pending envelopes are kept and new arrivals are dropped,
	// matching the library's best-effort delivery contract.
	BufferSize int

	// OnDrop is called with the topic of each envelope dropped because
	// the receive buffer was full. Optional; must not block.
	OnDrop func(topic string)
}

// DefaultBufferSize is the receive buffer capacity used when
// SubscribeOptions.BufferSize is zero.
const DefaultBufferSize = 64

// Backend bundles the open operations a transport provides. The pubsub
// factory table maps a transport kind to its Backend; opening is the only
// transport-specific step in building a publisher or subscriber.
type Backend struct {
	// Kind names the transport this backend implements.
	Kind Kind

	// OpenPublisher opens a publish-side connection. Fails with a
	// connection error if the address is malformed or the topology mode
	// is unsupported by the transport.
	OpenPublisher func(ctx context.Context, address string, topology Topology) (Conn, error)

	// OpenSubscriber opens a subscribe-side connection with an initial
	// filter set. Same failure contract as OpenPublisher.
	OpenSubscriber func(ctx context.Context, address string, topology Topology, opts SubscribeOptions) (Conn, error)
}

// matchesAny reports whether a topic passes a prefix filter set.
// An empty set matches nothing was requested explicitly, which for
// prefix-filtering transports means the empty-string filter ("match all")
// must be present to receive traffic; the subscriber abstraction installs
// filters before the first receive.
func matchesAny(topic string, filters []string) bool {
	for _, f := range filters {
		if len(topic) >= len(f) && topic[:len(f)] == f {
			return true
		}
	}
	return false
}
