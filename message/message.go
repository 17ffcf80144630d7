package message

// Message represents the unit of data exchanged between WheelChock
// processes. Messages carry typed, validated payloads with metadata from
// producers to consumers through the pub/sub layer.
//
// Design principles:
//   - Transport-agnostic: messages contain only data, no routing or socket logic
//   - Validated construction: a message observable by application code has
//     passed validation; construction fails otherwise
//   - Immutable after creation: fields are set during construction and
//     cannot be modified afterwards
type Message interface {
	// ID returns a unique identifier for this message instance.
	// Typically a UUID, this ID is immutable and globally unique.
	ID() string

	// Type returns structured type information used for routing and
	// schema lookup.
	Type() Type

	// Payload returns the typed message payload.
	Payload() Payload

	// Meta returns metadata about the message lifecycle and origin.
	// Includes creation time, receipt time, source, and sequence number.
	Meta() Meta

	// Validate performs comprehensive validation of the message.
	// Checks type validity, payload presence, and payload-specific rules.
	Validate() error
}
