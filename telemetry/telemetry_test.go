package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
)

func floatPtr(v float64) *float64 { return &v }

func TestRegister(t *testing.T) {
	registry := message.NewRegistry()
	require.NoError(t, Register(registry))

	for _, typ := range []message.Type{SensorReading, Heartbeat, DisplayState, MotorCommand} {
		assert.True(t, registry.Has(typ), "missing descriptor for %s", typ.Key())
	}

	// Double registration is a configuration error.
	require.Error(t, Register(registry))

	require.Error(t, Register(nil))
}

func TestSensorPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload SensorPayload
		wantErr bool
	}{
		{
			name:    "detection without probability",
			payload: SensorPayload{HumanDetected: true, Status: "detecting", StatusCode: 2},
		},
		{
			name: "detection with probability",
			payload: SensorPayload{
				HumanDetected:    true,
				HumanProbability: floatPtr(87.5),
				Status:           "detecting",
				StatusCode:       2,
			},
		},
		{
			name:    "probability at bounds",
			payload: SensorPayload{HumanProbability: floatPtr(100), Status: "active", StatusCode: 1},
		},
		{
			name:    "missing status",
			payload: SensorPayload{HumanDetected: true, StatusCode: 2},
			wantErr: true,
		},
		{
			name:    "probability above range",
			payload: SensorPayload{HumanProbability: floatPtr(100.1), Status: "active", StatusCode: 1},
			wantErr: true,
		},
		{
			name:    "probability below range",
			payload: SensorPayload{HumanProbability: floatPtr(-0.5), Status: "active", StatusCode: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHeartbeatPayloadValidate(t *testing.T) {
	assert.NoError(t, (&HeartbeatPayload{Status: "running", StatusCode: 0}).Validate())
	assert.NoError(t, (&HeartbeatPayload{Status: "starting_up", StatusCode: 1}).Validate())
	assert.Error(t, (&HeartbeatPayload{StatusCode: 0}).Validate())
}

func TestDisplayPayloadValidate(t *testing.T) {
	valid := DisplayPayload{
		OverrideMode: false,
		MotorMode:    MotorDeployed,
		Sensors: map[string]SensorDisplayEntry{
			"front": {SensorName: "front_sensor", HumanDetected: true, HumanProbability: floatPtr(91)},
			"rear":  {SensorName: "rear_sensor", HumanDetected: false},
		},
	}
	assert.NoError(t, valid.Validate())

	t.Run("unknown motor mode", func(t *testing.T) {
		p := valid
		p.MotorMode = "sideways"
		assert.Error(t, p.Validate())
	})

	t.Run("bad sensor entry", func(t *testing.T) {
		p := valid
		p.Sensors = map[string]SensorDisplayEntry{
			"front": {HumanDetected: true},
		}
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "front")
	})

	t.Run("no sensors is fine", func(t *testing.T) {
		p := valid
		p.Sensors = nil
		assert.NoError(t, p.Validate())
	})
}

func TestMotorPayloadValidate(t *testing.T) {
	for _, mode := range []MotorState{MotorDeploying, MotorDeployed, MotorFolding, MotorFolded} {
		assert.NoError(t, (&MotorPayload{OrderedMode: mode}).Validate())
	}
	assert.Error(t, (&MotorPayload{OrderedMode: "up"}).Validate())
	assert.Error(t, (&MotorPayload{}).Validate())
}

func TestTelemetryRoundTrip(t *testing.T) {
	registry := message.NewRegistry()
	require.NoError(t, Register(registry))
	codec := message.NewCodec(registry)

	payloads := []message.Payload{
		&SensorPayload{HumanDetected: true, HumanProbability: floatPtr(76.2), Status: "detecting", StatusCode: 2},
		&HeartbeatPayload{Status: "running", StatusCode: 0},
		&DisplayPayload{
			MotorMode: MotorFolding,
			Sensors: map[string]SensorDisplayEntry{
				"front": {SensorName: "front_sensor", HumanDetected: false},
			},
		},
		&MotorPayload{OverrideMode: true, OrderedMode: MotorDeployed},
	}

	for _, payload := range payloads {
		t.Run(payload.Schema().Key(), func(t *testing.T) {
			original, err := message.NewBaseMessage(payload, "test-node")
			require.NoError(t, err)
			data, err := codec.Encode(original, 3)
			require.NoError(t, err)

			decoded, err := codec.Decode(data, payload.Schema())
			require.NoError(t, err)
			assert.Equal(t, original.ID(), decoded.ID())
			assert.Equal(t, payload.Schema(), decoded.Type())
			assert.Equal(t, uint64(3), decoded.Meta().Sequence())
			assert.Equal(t, payload, decoded.Payload())
		})
	}
}

func TestConstraintRejectsWrongShapes(t *testing.T) {
	registry := message.NewRegistry()
	require.NoError(t, Register(registry))

	descriptor, err := registry.Lookup(SensorReading)
	require.NoError(t, err)
	assert.NotNil(t, descriptor.Factory())
	assert.NotEmpty(t, descriptor.Constraint)
}
