// Package wheelchock is the communication library for the WheelChock
// automated wheel chock system. It provides schema-validated pub/sub
// messaging between the system's devices: human-detection sensors, the
// motor controller, display units, and supervising services.
//
// The library is organized in layers:
//
//   - message: message model, schema registry, wire codec
//   - telemetry: the chock domain payloads (sensor, heartbeat, display, motor)
//   - transport: pluggable backends (zmq, nats, inproc)
//   - pubsub: publishers, sync/async subscribers, and their factory
//   - config: YAML endpoint configuration
//   - metric: Prometheus instrumentation
//   - errors: the shared error taxonomy
//
// cmd/chockrelay is a deployable bridge that forwards traffic between two
// configured endpoints.
package wheelchock
