package telemetry

import (
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

// Register installs schema descriptors for all telemetry payloads into the
// given registry. Call once at process startup, before any publisher or
// subscriber handling chock traffic is opened.
func Register(registry *message.Registry) error {
	if registry == nil {
		return errors.WrapUnsupportedConfig(errors.ErrInvalidConfig,
			"telemetry", "Register", "registry validation")
	}

	descriptors := []*message.Descriptor{
		{
			Type:        SensorReading,
			Factory:     func() message.Payload { return &SensorPayload{} },
			Description: "Human-detection sensor reading",
			Constraint:  sensorConstraint,
		},
		{
			Type:        Heartbeat,
			Factory:     func() message.Payload { return &HeartbeatPayload{} },
			Description: "Device health heartbeat",
			Constraint:  heartbeatConstraint,
		},
		{
			Type:        DisplayState,
			Factory:     func() message.Payload { return &DisplayPayload{} },
			Description: "Display unit state",
			Constraint:  displayConstraint,
		},
		{
			Type:        MotorCommand,
			Factory:     func() message.Payload { return &MotorPayload{} },
			Description: "Motor controller command",
			Constraint:  motorConstraint,
		},
	}

	for _, descriptor := range descriptors {
		if err := registry.Register(descriptor); err != nil {
			return errors.Wrap(err, "telemetry", "Register", descriptor.Type.Key())
		}
	}
	return nil
}
