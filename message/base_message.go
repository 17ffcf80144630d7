package message

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/pkg/timestamp"
)

// BaseMessage provides the standard implementation of the Message interface.
// It combines a typed payload with metadata to create a complete message
// ready for publication.
//
// BaseMessage is immutable after creation - all fields are set during
// construction and cannot be modified. This ensures message integrity
// throughout the publish pipeline.
//
// Construction uses the functional options pattern:
//
//	// Simple message (most common)
//	msg, err := message.NewBaseMessage(payload, "sensor-front")
//
//	// With specific timestamp (testing/historical data)
//	msg, err := message.NewBaseMessage(payload, "sensor-front", message.WithTime(pastTime))
type BaseMessage struct {
	id      string
	msgType Type
	payload Payload
	meta    Meta
}

// Option is a functional option for configuring BaseMessage construction.
type Option func(*BaseMessage)

// WithTime sets a specific creation timestamp instead of using time.Now().
// Useful for historical data import or testing.
func WithTime(createdAt time.Time) Option {
	return func(m *BaseMessage) {
		if defaultMeta, ok := m.meta.(*DefaultMeta); ok {
			defaultMeta.createdAt = timestamp.ToUnixMs(createdAt)
		}
	}
}

// WithMeta replaces the default metadata with a custom Meta implementation.
func WithMeta(meta Meta) Option {
	return func(m *BaseMessage) {
		m.meta = meta
	}
}

// WithID overrides the generated message ID. Used by the codec when
// reconstructing a message from wire bytes; application code normally
// lets the constructor assign a fresh UUID.
func WithID(id string) Option {
	return func(m *BaseMessage) {
		m.id = id
	}
}

// WithSourceName attaches a human-readable originator name alongside the
// source identifier, e.g. "front_sensor" next to "sensor-01".
func WithSourceName(name string) Option {
	return func(m *BaseMessage) {
		if defaultMeta, ok := m.meta.(*DefaultMeta); ok {
			defaultMeta.sourceName = name
		}
	}
}

// NewBaseMessage creates and validates a new BaseMessage. The message
// type is taken from the payload's declared schema, so a payload can
// never travel under a foreign type. Construction fails when the result
// would not validate; no partially-valid message escapes.
//
// Parameters:
//   - payload: The message payload implementing the Payload interface
//   - source: Identifier of the service or device creating this message
//   - opts: Optional configuration functions
func NewBaseMessage(payload Payload, source string, opts ...Option) (*BaseMessage, error) {
	m := newBaseMessage(payload, source, opts...)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// newBaseMessage assembles a BaseMessage without validating it. The codec
// uses it when reconstructing from wire bytes, where validation runs as a
// separate step so failures classify as malformed data.
func newBaseMessage(payload Payload, source string, opts ...Option) *BaseMessage {
	m := &BaseMessage{
		id:      uuid.New().String(),
		payload: payload,
		meta:    NewDefaultMeta(time.Now(), source),
	}
	if payload != nil {
		m.msgType = payload.Schema()
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// ID returns the unique message identifier.
func (m *BaseMessage) ID() string {
	return m.id
}

// Type returns the structured message type.
func (m *BaseMessage) Type() Type {
	return m.msgType
}

// Payload returns the message payload.
func (m *BaseMessage) Payload() Payload {
	return m.payload
}

// Meta returns the message metadata.
func (m *BaseMessage) Meta() Meta {
	return m.meta
}

// Validate performs comprehensive message validation.
func (m *BaseMessage) Validate() error {
	if !m.msgType.IsValid() {
		return errors.WrapValidation(errors.ErrInvalidPayload, "BaseMessage", "Validate",
			fmt.Sprintf("invalid message type %q", m.msgType.String()))
	}

	if m.payload == nil {
		return errors.WrapValidation(errors.ErrInvalidPayload, "BaseMessage", "Validate",
			"payload cannot be nil")
	}

	if !m.msgType.Equal(m.payload.Schema()) {
		return errors.WrapValidation(errors.ErrVersionMismatch, "BaseMessage", "Validate",
			fmt.Sprintf("message type %q does not match payload schema %q",
				m.msgType.String(), m.payload.Schema().String()))
	}

	if err := m.payload.Validate(); err != nil {
		return errors.WrapValidation(err, "BaseMessage", "Validate", "payload validation")
	}

	if m.meta == nil {
		return errors.WrapValidation(errors.ErrInvalidPayload, "BaseMessage", "Validate",
			"meta cannot be nil")
	}

	return nil
}
