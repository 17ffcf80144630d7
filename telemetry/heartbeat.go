package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

// HeartbeatPayload carries device health status.
//
// Expected status values per device:
//   - Display: "starting_up", "running", "error"
//   - Motor: "starting_up", "folded"
//
// Status stays a free-form string so new devices can report without a
// schema change; StatusCode carries the machine-readable health code.
type HeartbeatPayload struct {
	// Status is the device health status string.
	Status string `json:"status"`

	// StatusCode is the numeric health code.
	StatusCode int `json:"status_code"`
}

// Schema returns the message type for heartbeats.
func (p *HeartbeatPayload) Schema() message.Type {
	return Heartbeat
}

// Validate checks field presence.
func (p *HeartbeatPayload) Validate() error {
	if p.Status == "" {
		return fmt.Errorf("heartbeat status is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *HeartbeatPayload) MarshalJSON() ([]byte, error) {
	type Alias HeartbeatPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *HeartbeatPayload) UnmarshalJSON(data []byte) error {
	type Alias HeartbeatPayload
	return json.Unmarshal(data, (*Alias)(p))
}

var heartbeatConstraint = []byte(`{
	"type": "object",
	"required": ["status", "status_code"],
	"properties": {
		"status": {"type": "string", "minLength": 1},
		"status_code": {"type": "integer"}
	}
}`)
