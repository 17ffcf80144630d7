package telemetry

import (
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

// Message type constants for the chock domain.
var (
	// SensorReading identifies human-detection sensor payloads.
	SensorReading = message.Type{Domain: "chock", Category: "sensor", Version: "v1"}

	// Heartbeat identifies device health payloads.
	Heartbeat = message.Type{Domain: "chock", Category: "heartbeat", Version: "v1"}

	// DisplayState identifies display unit payloads.
	DisplayState = message.Type{Domain: "chock", Category: "display", Version: "v1"}

	// MotorCommand identifies motor controller payloads.
	MotorCommand = message.Type{Domain: "chock", Category: "motor", Version: "v1"}
)

// MotorState represents the position of the wheel chock motor.
type MotorState string

const (
	// MotorDeploying indicates the chock is moving into position
	MotorDeploying MotorState = "deploying"
	// MotorDeployed indicates the chock is fully in position
	MotorDeployed MotorState = "deployed"
	// MotorFolding indicates the chock is retracting
	MotorFolding MotorState = "folding"
	// MotorFolded indicates the chock is fully retracted
	MotorFolded MotorState = "folded"
)

// IsValid checks whether the value is a known motor state.
func (ms MotorState) IsValid() bool {
	switch ms {
	case MotorDeploying, MotorDeployed, MotorFolding, MotorFolded:
		return true
	default:
		return false
	}
}
