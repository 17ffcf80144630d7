package message

import "time"

// Meta provides metadata about a message's lifecycle and origin.
//
// Using an interface rather than a concrete type allows for:
//   - Custom metadata implementations for specific domains
//   - Extended metadata with additional fields when needed
//   - Easier testing with mock implementations
type Meta interface {
	// CreatedAt returns when the original event or observation occurred.
	// For sensor data, this is the measurement time.
	CreatedAt() time.Time

	// ReceivedAt returns when the message entered the receiving process.
	// This helps track ingestion latency and message age.
	// Zero until the message has crossed the wire.
	ReceivedAt() time.Time

	// Source returns the identifier of the message originator.
	// Examples: "sensor-front", "motor-controller", "display-main"
	Source() string

	// SourceName returns the human-readable name of the originator,
	// when one was provided. Empty otherwise.
	SourceName() string

	// Sequence returns the publisher-assigned sequence number.
	// Monotonically increasing per publisher session; zero before publish.
	Sequence() uint64
}
