package message

import (
	"time"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/pkg/timestamp"
)

// DefaultMeta provides the standard implementation of the Meta interface.
// It tracks when an event occurred, when it was received, where it
// originated from, and its publisher-assigned sequence number.
type DefaultMeta struct {
	createdAt  int64 // Unix milliseconds
	receivedAt int64 // Unix milliseconds
	source     string
	sourceName string
	sequence   uint64
}

// NewDefaultMeta creates a new DefaultMeta instance with the given
// creation time and source. The received time stays zero until the
// message crosses the wire; the sequence is assigned at publish time.
func NewDefaultMeta(createdAt time.Time, source string) *DefaultMeta {
	return &DefaultMeta{
		createdAt: timestamp.ToUnixMs(createdAt),
		source:    source,
	}
}

// NewReceivedMeta creates a DefaultMeta for a message reconstructed from
// wire bytes, with explicit received time and sequence number.
func NewReceivedMeta(createdAt, receivedAt time.Time, source, sourceName string, sequence uint64) *DefaultMeta {
	return &DefaultMeta{
		createdAt:  timestamp.ToUnixMs(createdAt),
		receivedAt: timestamp.ToUnixMs(receivedAt),
		source:     source,
		sourceName: sourceName,
		sequence:   sequence,
	}
}

// CreatedAt returns when the original event occurred.
func (m *DefaultMeta) CreatedAt() time.Time {
	return timestamp.ToTime(m.createdAt)
}

// ReceivedAt returns when the receiving process got the message.
func (m *DefaultMeta) ReceivedAt() time.Time {
	return timestamp.ToTime(m.receivedAt)
}

// Source returns the origin of the message.
func (m *DefaultMeta) Source() string {
	return m.source
}

// SourceName returns the human-readable originator name, if set.
func (m *DefaultMeta) SourceName() string {
	return m.sourceName
}

// Sequence returns the publisher-assigned sequence number.
func (m *DefaultMeta) Sequence() uint64 {
	return m.sequence
}
