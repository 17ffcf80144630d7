package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

// SensorPayload carries a human-detection sensor reading.
//
// HumanProbability is a pointer because sensors without a confidence model
// omit it entirely; when present it is a percentage in [0, 100].
type SensorPayload struct {
	// HumanDetected is true when a human is detected near the chock.
	HumanDetected bool `json:"human_detected"`

	// HumanProbability is the detection confidence in percent, when the
	// sensor provides one.
	HumanProbability *float64 `json:"human_probability,omitempty"`

	// Status is the operational status string, e.g. "active", "detecting".
	Status string `json:"status"`

	// StatusCode is the numeric operational status code.
	StatusCode int `json:"status_code"`
}

// Schema returns the message type for sensor readings.
func (p *SensorPayload) Schema() message.Type {
	return SensorReading
}

// Validate checks field presence and ranges.
func (p *SensorPayload) Validate() error {
	if p.Status == "" {
		return fmt.Errorf("sensor status is required")
	}
	if p.HumanProbability != nil && (*p.HumanProbability < 0 || *p.HumanProbability > 100) {
		return fmt.Errorf("human probability %.2f out of range [0, 100]", *p.HumanProbability)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *SensorPayload) MarshalJSON() ([]byte, error) {
	type Alias SensorPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *SensorPayload) UnmarshalJSON(data []byte) error {
	type Alias SensorPayload
	return json.Unmarshal(data, (*Alias)(p))
}

// sensorConstraint is the JSON Schema document enforced on raw sensor
// payload bytes before deserialization.
var sensorConstraint = []byte(`{
	"type": "object",
	"required": ["human_detected", "status", "status_code"],
	"properties": {
		"human_detected": {"type": "boolean"},
		"human_probability": {"type": "number", "minimum": 0, "maximum": 100},
		"status": {"type": "string", "minLength": 1},
		"status_code": {"type": "integer"}
	}
}`)
