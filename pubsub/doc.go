// Package pubsub provides the application-facing publisher and subscriber
// abstractions of the WheelChock communication library.
//
// # Lifecycle
//
// Publishers and subscribers share one state machine:
//
//	CREATED -> OPEN -> CLOSED
//
// Factory construction yields CREATED; Open acquires the transport
// connection and moves to OPEN; Close releases it and moves to CLOSED,
// terminally; there is no re-open. Publishing or receiving outside OPEN
// fails with a lifecycle error. Close is idempotent: the second and later
// calls are no-ops.
//
// Scoped acquisition is the required usage pattern: open on entry, close
// guaranteed on every exit path:
//
//	pub, err := factory.NewPublisher(cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pub.Open(ctx); err != nil {
//	    return err
//	}
//	defer pub.Close()
//
// # Execution modes
//
// Subscribers come in two concrete variants sharing one contract. The
// SyncSubscriber blocks its calling goroutine with a timeout:
//
//	msg, ok, err := sub.Receive(2 * time.Second)
//	if err != nil { ... }
//	if !ok { /* timeout, nothing arrived */ }
//
// The AsyncSubscriber suspends cooperatively on a context; cancelling the
// context abandons that receive attempt only; the subscriber stays OPEN
// and buffered messages are kept:
//
//	msg, ok, err := sub.Receive(ctx)
//
// Mixing modes across instances in one process is fine; a single instance
// is one mode for its whole life. No instance is safe for concurrent calls
// without external synchronization.
//
// # Error propagation
//
// A malformed message arriving from the transport is logged, counted, and
// dropped inside Receive; the subscription keeps waiting. Every other
// error kind propagates to the caller. The library never retries sends or
// opens; retry policy belongs to the application.
package pubsub
