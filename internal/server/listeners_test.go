package server

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyObserver panics after dispatching one topic, which the bus reports
// as an engine fault.
type faultyObserver struct{ topic eventbus.Topic }

func (faultyObserver) ListenerDone(eventbus.Topic, eventbus.Kind, error, time.Duration) {}

func (o faultyObserver) EmissionDone(topic eventbus.Topic, _, _ int, _ time.Duration) {
	if topic == o.topic {
		panic("observer failed")
	}
}

func TestGlobalListeners_BridgesEngineFaults(t *testing.T) {
	bus := eventbus.NewBus(logger.Nop{}, eventbus.WithObserver(faultyObserver{topic: events.ActivityCreatedTopic}))
	listeners := NewGlobalListeners(bus, logger.Nop{})
	defer listeners.Close()

	var got []events.SystemErrorEvent
	bus.On(events.SystemErrorTopic, func(_ context.Context, e eventbus.Event) error {
		got = append(got, e.Payload.(events.SystemErrorEvent))
		return nil
	})

	bus.Emit(context.Background(), events.ActivityCreatedTopic, events.ActivityCreatedEvent{})

	require.Len(t, got, 1)
	assert.Equal(t, eventbus.SourceEventBus, got[0].Component)
	assert.Contains(t, got[0].Message, string(events.ActivityCreatedTopic))
	var dispatchErr *eventbus.DispatchError
	assert.True(t, errors.As(got[0].Err, &dispatchErr))
}

func TestGlobalListeners_Logs(t *testing.T) {
	var buf bytes.Buffer
	bus := eventbus.NewBus(logger.Nop{})
	listeners := NewGlobalListeners(bus, logger.NewSlogAdapterWithWriter(&buf, "production", "info"))

	ctx := context.Background()
	bus.Emit(ctx, events.SystemErrorTopic, events.SystemErrorEvent{Component: "SyncWorker", Message: "purge failed", Err: errors.New("timeout")})
	bus.Emit(ctx, events.UserLoggedInTopic, events.UserSessionEvent{UserID: uuid.New(), Role: "volunteer"})
	bus.Emit(ctx, events.DataSyncCompletedTopic, events.DataSyncCompletedEvent{PurgedNotifications: 4})

	out := buf.String()
	assert.Contains(t, out, `"msg":"system error"`)
	assert.Contains(t, out, `"component":"SyncWorker"`)
	assert.Contains(t, out, `"msg":"user logged in"`)
	assert.Contains(t, out, `"purged_notifications":4`)

	listeners.Close()
	assert.Zero(t, bus.Stats().TotalListeners)
}
