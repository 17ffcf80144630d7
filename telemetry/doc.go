// Package telemetry defines the WheelChock domain payloads: human-detection
// sensor readings, device heartbeats, display state, and motor commands.
//
// Each payload implements message.Payload with field-level validation and
// declares its own schema type. Register installs the schema descriptors
// for all telemetry payloads into a message.Registry, including JSON Schema
// constraint documents that are enforced on raw wire bytes before
// deserialization is attempted.
//
// Message type constants live here, next to the payloads they describe:
//
//	telemetry.SensorReading  // chock.sensor.v1
//	telemetry.Heartbeat      // chock.heartbeat.v1
//	telemetry.DisplayState   // chock.display.v1
//	telemetry.MotorCommand   // chock.motor.v1
package telemetry
