// Package transport defines the backend capability interface of the
// WheelChock communication library and its concrete backends.
//
// A transport supplies the minimal operations the pub/sub layer drives:
// open a connection in bind or connect topology, send topic-framed bytes,
// receive topic-framed bytes, and close. Everything above this boundary
// exchanges validated message values; raw wire bytes exist only here.
//
// # Backends
//
//   - zmq: ZeroMQ PUB/SUB sockets (github.com/go-zeromq/zmq4). Supports
//     bind and connect on either side. Topic filters are prefix matches.
//     Message order within a single publisher/subscriber pair over one
//     topic is preserved. Bind-mode publishers exhibit the slow-joiner
//     characteristic: messages sent before a subscriber's connection is
//     fully established are silently dropped by the transport. This is
//     inherent to ZeroMQ PUB/SUB, not a bug; fan-out setup code must allow
//     a join grace period before the first publish.
//
//   - nats: NATS core pub/sub (github.com/nats-io/nats.go). Brokered, so
//     only connect topology is supported; bind fails with a connection
//     error. Topic filters are NATS subjects (exact, or NATS wildcards).
//     Order is preserved per publisher.
//
//   - inproc: process-local broker for tests and single-binary
//     deployments. Bind claims an address, connect attaches to it. Topic
//     filters are prefix matches. Order is preserved.
//
// Adding a transport means implementing Backend here and adding one entry
// to the factory table in the pubsub package; application-facing contracts
// do not change.
package transport
