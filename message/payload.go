package message

import "encoding/json"

// Payload represents the data carried by a message.
// All message payloads must implement this interface to provide
// schema information, validation, and serialization capabilities.
//
// Example implementation:
//
//	type SensorPayload struct {
//	    HumanDetected    bool     `json:"human_detected"`
//	    HumanProbability *float64 `json:"human_probability,omitempty"`
//	    SensorStatus     string   `json:"sensor_status"`
//	    SensorStatusCode int      `json:"sensor_status_code"`
//	}
//
//	func (p *SensorPayload) Schema() message.Type {
//	    return message.Type{Domain: "chock", Category: "sensor", Version: "v1"}
//	}
//
//	func (p *SensorPayload) Validate() error {
//	    if p.HumanProbability != nil && (*p.HumanProbability < 0 || *p.HumanProbability > 100) {
//	        return errors.ErrInvalidPayload
//	    }
//	    return nil
//	}
//
//	func (p *SensorPayload) MarshalJSON() ([]byte, error) {
//	    // Use alias to avoid infinite recursion
//	    type Alias SensorPayload
//	    return json.Marshal((*Alias)(p))
//	}
//
//	func (p *SensorPayload) UnmarshalJSON(data []byte) error {
//	    type Alias SensorPayload
//	    return json.Unmarshal(data, (*Alias)(p))
//	}
type Payload interface {
	// Schema returns the Type that defines this payload's structure.
	// This enables type-safe routing and processing throughout the system.
	Schema() Type

	// Validate checks the payload data for correctness.
	// Returns nil if valid, or an error describing the validation failure.
	// Should validate:
	//   - Required fields are present
	//   - Values are within acceptable ranges
	//   - Declared enums are respected
	Validate() error

	// JSON serialization using standard Go interfaces.
	// Payloads must implement json.Marshaler and json.Unmarshaler
	// for deterministic serialization. The same payload must always
	// produce the same JSON output.
	json.Marshaler
	json.Unmarshaler
}
