package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

// MotorPayload carries a motor controller command: the mode the chock
// motor is ordered into.
type MotorPayload struct {
	// OverrideMode is true when an operator has taken manual control.
	OverrideMode bool `json:"override_mode"`

	// OrderedMode is the target motor state.
	OrderedMode MotorState `json:"ordered_mode"`
}

// Schema returns the message type for motor commands.
func (p *MotorPayload) Schema() message.Type {
	return MotorCommand
}

// Validate checks the ordered mode enum.
func (p *MotorPayload) Validate() error {
	if !p.OrderedMode.IsValid() {
		return fmt.Errorf("unknown ordered mode %q", p.OrderedMode)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *MotorPayload) MarshalJSON() ([]byte, error) {
	type Alias MotorPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *MotorPayload) UnmarshalJSON(data []byte) error {
	type Alias MotorPayload
	return json.Unmarshal(data, (*Alias)(p))
}

var motorConstraint = []byte(`{
	"type": "object",
	"required": ["override_mode", "ordered_mode"],
	"properties": {
		"override_mode": {"type": "boolean"},
		"ordered_mode": {"type": "string", "enum": ["deploying", "deployed", "folding", "folded"]}
	}
}`)
