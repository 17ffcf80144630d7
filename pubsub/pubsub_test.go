package pubsub

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/config"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/errors"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/message"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/metric"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/telemetry"
	"github.com/TRU-Capstone-2026-WheelChock/wheelchoke-system-communication-system/transport"
)

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	registry := message.NewRegistry()
	require.NoError(t, telemetry.Register(registry))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFactory(registry, WithLogger(logger), WithMetrics(metric.NewMetrics()))
}

func uniqueAddr(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("pubsub-%s-%d", t.Name(), time.Now().UnixNano())
}

func pubEndpoint(addr string) config.Endpoint {
	return config.Endpoint{
		Transport: transport.KindInproc,
		Topology:  transport.TopologyBind,
		Address:   addr,
		Mode:      config.ModeSync,
	}
}

func subEndpoint(addr string, mode config.Mode, topics ...string) config.Endpoint {
	return config.Endpoint{
		Transport: transport.KindInproc,
		Topology:  transport.TopologyConnect,
		Address:   addr,
		Mode:      mode,
		Topics:    topics,
	}
}

func sensorMessage(t *testing.T, value float64) message.Message {
	t.Helper()
	msg, err := message.NewBaseMessage(&telemetry.SensorPayload{
		HumanDetected:    true,
		HumanProbability: &value,
		Status:           "detecting",
		StatusCode:       2,
	}, "test-node")
	require.NoError(t, err)
	return msg
}

func TestPublisherLifecycle(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	assert.Equal(t, StateCreated, pub.State())

	// Publishing before Open is a lifecycle violation.
	err = pub.Publish("chock.sensor", sensorMessage(t, 50))
	require.Error(t, err)
	assert.True(t, errors.IsLifecycle(err))
	assert.True(t, stderrors.Is(err, errors.ErrNotOpen))

	require.NoError(t, pub.Open(ctx))
	assert.Equal(t, StateOpen, pub.State())

	err = pub.Open(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrAlreadyOpen))

	require.NoError(t, pub.Close())
	assert.Equal(t, StateClosed, pub.State())
	require.NoError(t, pub.Close()) // second close is a no-op

	// CLOSED is terminal.
	err = pub.Open(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrClosed))

	err = pub.Publish("chock.sensor", sensorMessage(t, 50))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrClosed))
}

func TestCloseFromCreated(t *testing.T) {
	factory := newTestFactory(t)

	pub, err := factory.NewPublisher(pubEndpoint(uniqueAddr(t)))
	require.NoError(t, err)
	require.NoError(t, pub.Close())
	assert.Equal(t, StateClosed, pub.State())

	sub, err := factory.NewSyncSubscriber(subEndpoint(uniqueAddr(t), config.ModeSync))
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	assert.Equal(t, StateClosed, sub.State())
}

func TestSubscriberLifecycle(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	sub, err := factory.NewSyncSubscriber(subEndpoint(addr, config.ModeSync))
	require.NoError(t, err)

	_, _, err = sub.Receive(0)
	require.Error(t, err)
	assert.True(t, errors.IsLifecycle(err))

	err = sub.Subscribe("chock.")
	require.Error(t, err)
	assert.True(t, errors.IsLifecycle(err))

	require.NoError(t, sub.Open(ctx))
	require.NoError(t, sub.Subscribe("chock."))
	require.NoError(t, sub.Unsubscribe("chock."))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, _, err = sub.Receive(0)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrClosed))
}

func TestFactoryRejectsUnsupportedConfigurations(t *testing.T) {
	factory := newTestFactory(t)

	t.Run("mqtt has no backend", func(t *testing.T) {
		cfg := pubEndpoint(uniqueAddr(t))
		cfg.Transport = transport.KindMQTT
		_, err := factory.NewPublisher(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsUnsupportedConfig(err))
		assert.True(t, stderrors.Is(err, errors.ErrUnknownTransport))
	})

	t.Run("unknown transport string", func(t *testing.T) {
		cfg := pubEndpoint(uniqueAddr(t))
		cfg.Transport = "smoke-signals"
		_, err := factory.NewPublisher(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsUnsupportedConfig(err))
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := subEndpoint(uniqueAddr(t), "threaded")
		_, err := factory.NewSubscriber(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsUnsupportedConfig(err))
	})

	t.Run("missing address", func(t *testing.T) {
		cfg := pubEndpoint("")
		_, err := factory.NewPublisher(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsUnsupportedConfig(err))
	})
}

func TestFactoryModeDispatch(t *testing.T) {
	factory := newTestFactory(t)

	sub, err := factory.NewSubscriber(subEndpoint(uniqueAddr(t), config.ModeSync))
	require.NoError(t, err)
	assert.IsType(t, &SyncSubscriber{}, sub)

	sub, err = factory.NewSubscriber(subEndpoint(uniqueAddr(t), config.ModeAsync))
	require.NoError(t, err)
	assert.IsType(t, &AsyncSubscriber{}, sub)
}

func TestPublishReceiveOrdering(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	sub, err := factory.NewSyncSubscriber(subEndpoint(addr, config.ModeSync, "chock."))
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	values := []float64{21.5, 21.5, 21.5}
	for _, v := range values {
		require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, v)))
	}

	for i, want := range values {
		msg, ok, err := sub.Receive(time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, uint64(i), msg.Meta().Sequence(), "messages must arrive in publish order")
		payload, isSensor := msg.Payload().(*telemetry.SensorPayload)
		require.True(t, isSensor)
		require.NotNil(t, payload.HumanProbability)
		assert.Equal(t, want, *payload.HumanProbability)
		assert.Equal(t, "test-node", msg.Meta().Source())
		assert.False(t, msg.Meta().ReceivedAt().IsZero())
	}
}

func TestSyncReceiveTimeout(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	sub, err := factory.NewSyncSubscriber(subEndpoint(addr, config.ModeSync))
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	// Timeout expiry is a sentinel, not an error.
	start := time.Now()
	msg, ok, err := sub.Receive(30 * time.Millisecond)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, msg)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	// Zero timeout polls without waiting.
	start = time.Now()
	_, ok, err = sub.Receive(0)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, StateOpen, sub.State())
}

func TestSyncZeroTimeoutDrainsBuffered(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	sub, err := factory.NewSyncSubscriber(subEndpoint(addr, config.ModeSync))
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, 10)))

	msg, ok, err := sub.Receive(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, telemetry.SensorReading, msg.Type())
}

func TestAsyncReceive(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	sub, err := factory.NewAsyncSubscriber(subEndpoint(addr, config.ModeAsync))
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	t.Run("deadline yields sentinel", func(t *testing.T) {
		recvCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		msg, ok, err := sub.Receive(recvCtx)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, msg)
	})

	t.Run("cancellation is not closure", func(t *testing.T) {
		recvCtx, cancel := context.WithCancel(ctx)
		cancel()
		_, ok, err := sub.Receive(recvCtx)
		assert.False(t, ok)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, context.Canceled))
		assert.Equal(t, StateOpen, sub.State())
	})

	t.Run("delivers after cancellation", func(t *testing.T) {
		require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, 33)))
		msg, ok, err := sub.Receive(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, telemetry.SensorReading, msg.Type())
	})
}

func TestMalformedTrafficIsDropped(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	sub, err := factory.NewSyncSubscriber(subEndpoint(addr, config.ModeSync))
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	// A foreign publisher on the same broker injects garbage straight at
	// the transport layer, below the codec.
	raw, err := transport.Inproc().OpenPublisher(ctx, addr, transport.TopologyConnect)
	require.NoError(t, err)
	defer func() { _ = raw.Close() }()

	require.NoError(t, raw.Send("chock.sensor", []byte("not json at all")))
	require.NoError(t, raw.Send("chock.sensor", []byte(`{"type": {"domain": "x"}}`)))
	require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, 77)))

	// The garbage never surfaces; the next delivery is the valid message.
	msg, ok, err := sub.Receive(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	payload := msg.Payload().(*telemetry.SensorPayload)
	assert.Equal(t, 77.0, *payload.HumanProbability)
}

func TestBufferFullDropsAreCounted(t *testing.T) {
	registry := message.NewRegistry()
	require.NoError(t, telemetry.Register(registry))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := metric.NewMetrics()
	factory := NewFactory(registry, WithLogger(logger), WithMetrics(metrics))

	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	subCfg := subEndpoint(addr, config.ModeSync)
	subCfg.BufferSize = 1
	sub, err := factory.NewSyncSubscriber(subCfg)
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	// The buffer holds one message; the next two are dropped before any
	// receive happens. Inproc delivery is synchronous, so the counter is
	// settled once Publish returns.
	for i := 0; i < 3; i++ {
		require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, float64(i))))
	}

	counter := metrics.MessagesDropped.WithLabelValues("inproc", "buffer_full")
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))

	// The surviving message is still deliverable.
	msg, ok, err := sub.Receive(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, *msg.Payload().(*telemetry.SensorPayload).HumanProbability)
}

func TestExpectedTypeFiltering(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	sub, err := factory.NewSyncSubscriber(
		subEndpoint(addr, config.ModeSync),
		WithExpectedType(telemetry.SensorReading),
	)
	require.NoError(t, err)
	require.NoError(t, sub.Open(ctx))
	defer func() { _ = sub.Close() }()

	heartbeat, err := message.NewBaseMessage(&telemetry.HeartbeatPayload{Status: "running"}, "test-node")
	require.NoError(t, err)
	require.NoError(t, pub.Publish("chock.heartbeat", heartbeat))
	require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, 12)))

	// The heartbeat fails the expected-type check and is dropped.
	msg, ok, err := sub.Receive(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, telemetry.SensorReading, msg.Type())
}

func TestSequenceConsumption(t *testing.T) {
	factory := newTestFactory(t)
	addr := uniqueAddr(t)
	ctx := context.Background()

	pub, err := factory.NewPublisher(pubEndpoint(addr))
	require.NoError(t, err)
	require.NoError(t, pub.Open(ctx))
	defer func() { _ = pub.Close() }()

	assert.Equal(t, uint64(0), pub.Sequence())

	// A message that fails validation does not consume a number. The
	// constructor refuses invalid input, so break the payload afterwards
	// through its shared pointer.
	payload := &telemetry.SensorPayload{Status: "active", StatusCode: 1}
	invalid, err := message.NewBaseMessage(payload, "test-node")
	require.NoError(t, err)
	payload.Status = ""

	err = pub.Publish("chock.sensor", invalid)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, uint64(0), pub.Sequence())

	require.NoError(t, pub.Publish("chock.sensor", sensorMessage(t, 5)))
	assert.Equal(t, uint64(1), pub.Sequence())
}

func TestSubscriberConstruction(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()

	subs := map[string]Subscriber{}

	syncSub, err := factory.NewSyncSubscriber(
		subEndpoint(uniqueAddr(t), config.ModeSync),
		WithExpectedType(telemetry.SensorReading),
	)
	require.NoError(t, err)
	require.Equal(t, telemetry.SensorReading, syncSub.expect)
	subs["sync"] = syncSub

	asyncSub, err := factory.NewAsyncSubscriber(
		subEndpoint(uniqueAddr(t), config.ModeAsync),
		WithExpectedType(telemetry.SensorReading),
	)
	require.NoError(t, err)
	require.Equal(t, telemetry.SensorReading, asyncSub.expect)
	subs["async"] = asyncSub

	// The embedded core's state machine must work straight off the
	// constructor, including under concurrent State reads.
	for name, sub := range subs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, StateCreated, sub.State())
			require.NoError(t, sub.Open(ctx))

			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 100; i++ {
					_ = sub.State()
				}
			}()
			require.NoError(t, sub.Subscribe("chock."))
			<-done

			require.NoError(t, sub.Close())
			assert.Equal(t, StateClosed, sub.State())
		})
	}
}

func TestCustomBackend(t *testing.T) {
	registry := message.NewRegistry()
	require.NoError(t, telemetry.Register(registry))

	custom := transport.Inproc()
	custom.Kind = transport.KindMQTT // masquerade to prove the table is extensible

	factory := NewFactory(registry,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBackend(custom),
	)

	cfg := pubEndpoint(uniqueAddr(t))
	cfg.Transport = transport.KindMQTT
	pub, err := factory.NewPublisher(cfg)
	require.NoError(t, err)
	require.NoError(t, pub.Open(context.Background()))
	require.NoError(t, pub.Close())
}
