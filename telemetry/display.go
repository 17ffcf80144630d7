package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

// SensorDisplayEntry is one sensor's state as shown on a display unit.
type SensorDisplayEntry struct {
	// SensorName is the human-readable sensor label, e.g. "front_sensor".
	SensorName string `json:"sensor_name"`

	// HumanDetected mirrors the latest reading from that sensor.
	HumanDetected bool `json:"human_detected"`

	// HumanProbability is the detection confidence in percent, if known.
	HumanProbability *float64 `json:"human_probability,omitempty"`
}

// Validate checks field presence and ranges.
func (e SensorDisplayEntry) Validate() error {
	if e.SensorName == "" {
		return fmt.Errorf("sensor name is required")
	}
	if e.HumanProbability != nil && (*e.HumanProbability < 0 || *e.HumanProbability > 100) {
		return fmt.Errorf("human probability %.2f out of range [0, 100]", *e.HumanProbability)
	}
	return nil
}

// DisplayPayload carries the full state a display unit renders: per-sensor
// detection state plus the motor mode, keyed by sensor position
// ("front", "rear", ...).
type DisplayPayload struct {
	// OverrideMode is true when an operator has taken manual control.
	OverrideMode bool `json:"override_mode"`

	// Sensors maps sensor position to its display state.
	Sensors map[string]SensorDisplayEntry `json:"sensors"`

	// MotorMode is the chock motor position to render.
	MotorMode MotorState `json:"motor_mode"`
}

// Schema returns the message type for display state.
func (p *DisplayPayload) Schema() message.Type {
	return DisplayState
}

// Validate checks the motor mode enum and every sensor entry.
func (p *DisplayPayload) Validate() error {
	if !p.MotorMode.IsValid() {
		return fmt.Errorf("unknown motor mode %q", p.MotorMode)
	}
	for position, entry := range p.Sensors {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("sensor %q: %w", position, err)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *DisplayPayload) MarshalJSON() ([]byte, error) {
	type Alias DisplayPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *DisplayPayload) UnmarshalJSON(data []byte) error {
	type Alias DisplayPayload
	return json.Unmarshal(data, (*Alias)(p))
}

var displayConstraint = []byte(`{
	"type": "object",
	"required": ["override_mode", "motor_mode"],
	"properties": {
		"override_mode": {"type": "boolean"},
		"motor_mode": {"type": "string", "enum": ["deploying", "deployed", "folding", "folded"]},
		"sensors": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["sensor_name", "human_detected"],
				"properties": {
					"sensor_name": {"type": "string", "minLength": 1},
					"human_detected": {"type": "boolean"},
					"human_probability": {"type": "number", "minimum": 0, "maximum": 100}
				}
			}
		}
	}
}`)
