package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/pkg/timestamp"
)

// wireFormat is the JSON wire representation of a message.
// It is symmetric: Decode(Encode(m)) reconstructs an equivalent message.
type wireFormat struct {
	ID       string          `json:"id"`
	Type     Type            `json:"type"`
	Sequence uint64          `json:"sequence"`
	Payload  json.RawMessage `json:"payload"`
	Meta     wireMeta        `json:"meta"`
}

// wireMeta carries lifecycle metadata across the wire with int64
// millisecond timestamps for consistency.
type wireMeta struct {
	CreatedAt  int64  `json:"created_at"`
	Source     string `json:"source"`
	SourceName string `json:"source_name,omitempty"`
}

// Codec converts between validated Message values and wire bytes using a
// schema registry. It sits between the publisher/subscriber abstractions
// and the transport: nothing un-validated crosses it in either direction.
//
// Error classification is asymmetric:
//   - Encode failures are errors.KindValidation (programmer/input error,
//     loud, non-retryable)
//   - Decode failures are errors.KindMalformedData (transport-data error,
//     recoverable; the subscriber drops the message and continues)
type Codec struct {
	registry *Registry
}

// NewCodec creates a Codec bound to a schema registry.
func NewCodec(registry *Registry) *Codec {
	return &Codec{registry: registry}
}

// Registry returns the schema registry this codec resolves types against.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Encode validates a message and serializes it to wire bytes. The sequence
// number is assigned by the publisher at send time and stamped into the
// envelope; the message value itself stays immutable.
//
// Any failure is a send-path schema violation and surfaces to the caller
// before the transport is touched.
func (c *Codec) Encode(msg Message, sequence uint64) ([]byte, error) {
	if msg == nil {
		return nil, errors.WrapValidation(errors.ErrInvalidPayload,
			"Codec", "Encode", "nil message check")
	}

	if err := msg.Validate(); err != nil {
		return nil, errors.WrapValidation(err, "Codec", "Encode", "message validation")
	}

	descriptor, err := c.registry.Lookup(msg.Type())
	if err != nil {
		return nil, err
	}

	payloadData, err := msg.Payload().MarshalJSON()
	if err != nil {
		return nil, errors.WrapValidation(err, "Codec", "Encode", "payload serialization")
	}

	if err := descriptor.validateConstraint(payloadData); err != nil {
		return nil, errors.WrapValidation(err, "Codec", "Encode", "constraint check")
	}

	wire := wireFormat{
		ID:       msg.ID(),
		Type:     msg.Type(),
		Sequence: sequence,
		Payload:  payloadData,
		Meta: wireMeta{
			CreatedAt:  timestamp.ToUnixMs(msg.Meta().CreatedAt()),
			Source:     msg.Meta().Source(),
			SourceName: msg.Meta().SourceName(),
		},
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, errors.WrapValidation(err, "Codec", "Encode", "wire serialization")
	}
	return data, nil
}

// Decode deserializes wire bytes into a validated Message.
//
// When expect is a non-zero Type, the wire type must equal it; a mismatch
// is bridged only by an explicitly registered migration rule and is a hard
// failure otherwise. A zero expect accepts any registered type.
//
// All failures are receive-path data errors (errors.KindMalformedData):
// the caller logs and drops the message, the subscription continues.
func (c *Codec) Decode(data []byte, expect Type) (Message, error) {
	var wire wireFormat
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, errors.WrapMalformedData(err, "Codec", "Decode", "wire deserialization")
	}

	if !wire.Type.IsValid() {
		return nil, errors.WrapMalformedData(errors.ErrMalformedData,
			"Codec", "Decode", fmt.Sprintf("incomplete wire type %q", wire.Type.Key()))
	}

	payloadData := wire.Payload
	msgType := wire.Type

	if !expect.IsZero() && !msgType.Equal(expect) {
		migrate := c.registry.migration(msgType, expect)
		if migrate == nil {
			return nil, errors.WrapMalformedData(errors.ErrVersionMismatch, "Codec", "Decode",
				fmt.Sprintf("got %q, expected %q, no migration registered",
					msgType.Key(), expect.Key()))
		}

		migrated, err := migrate(payloadData)
		if err != nil {
			return nil, errors.WrapMalformedData(err, "Codec", "Decode",
				fmt.Sprintf("migration %q -> %q", msgType.Key(), expect.Key()))
		}
		payloadData = migrated
		msgType = expect
	}

	descriptor, err := c.registry.Lookup(msgType)
	if err != nil {
		return nil, errors.WrapMalformedData(errors.ErrSchemaNotRegistered,
			"Codec", "Decode", fmt.Sprintf("schema %q", msgType.Key()))
	}

	if err := descriptor.validateConstraint(payloadData); err != nil {
		return nil, errors.WrapMalformedData(err, "Codec", "Decode", "constraint check")
	}

	payload := descriptor.Factory()
	if err := payload.UnmarshalJSON(payloadData); err != nil {
		return nil, errors.WrapMalformedData(err, "Codec", "Decode", "payload deserialization")
	}

	if err := payload.Validate(); err != nil {
		return nil, errors.WrapMalformedData(err, "Codec", "Decode", "payload validation")
	}

	meta := NewReceivedMeta(
		timestamp.ToTime(wire.Meta.CreatedAt),
		time.Now(),
		wire.Meta.Source,
		wire.Meta.SourceName,
		wire.Sequence,
	)

	msg := newBaseMessage(payload, wire.Meta.Source, WithID(wire.ID), WithMeta(meta))
	if err := msg.Validate(); err != nil {
		return nil, errors.WrapMalformedData(err, "Codec", "Decode", "message validation")
	}

	return msg, nil
}
