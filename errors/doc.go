// Package errors provides standardized error handling patterns for the
// WheelChock communication library.
//
// # Overview
//
// The package implements a six-kind error classification system aligned with
// the publish/subscribe lifecycle: Lifecycle (invalid state transition,
// programmer error), Connection (open-time transport failure), Transport
// (runtime send/receive failure), Validation (schema violation on the send
// path), MalformedData (schema violation on the receive path, recovered
// internally), and UnsupportedConfig (factory-time configuration rejection).
//
// The classification enables callers to make informed decisions without
// error string matching: Validation errors indicate a programming or input
// bug and must not be retried, Transport errors are per-call and leave the
// session usable, MalformedData errors are swallowed inside subscribers and
// only surface through logs and metrics.
//
// The system integrates with Go's standard error handling, supporting
// errors.Is(), errors.As(), and wrapping chains.
//
// # Quick Start
//
// Return sentinel variables for known conditions:
//
//	if p.state != StateOpen {
//	    return errors.ErrNotOpen
//	}
//
// Wrap third-party errors with component context:
//
//	if err := sock.SendMulti(msg); err != nil {
//	    return errors.WrapTransport(err, "ZMQPublisher", "Publish", "socket send")
//	}
//
// Check classification at the call site:
//
//	if errors.IsTransport(err) {
//	    // session still open, caller may retry
//	}
package errors
