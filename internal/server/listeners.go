package server

import (
	"context"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
)

// GlobalListeners holds the process-wide listeners that are not owned by a
// module: the fault bridge and the audit logs.
type GlobalListeners struct {
	bus    *eventbus.Bus
	logger logger.Logger
	group  eventbus.Group
}

func NewGlobalListeners(bus *eventbus.Bus, log logger.Logger) *GlobalListeners {
	g := &GlobalListeners{bus: bus, logger: log}
	g.group.Add(
		bus.On(eventbus.TopicError, eventbus.Bind(g, (*GlobalListeners).onEngineFault), eventbus.WithReceiver(g)),
		bus.On(events.SystemErrorTopic, eventbus.Bind(g, (*GlobalListeners).onSystemError), eventbus.WithReceiver(g)),
		bus.On(events.UserLoggedInTopic, eventbus.Bind(g, (*GlobalListeners).onUserLoggedIn), eventbus.WithReceiver(g)),
		bus.On(events.DataSyncCompletedTopic, eventbus.Bind(g, (*GlobalListeners).onSyncCompleted), eventbus.WithReceiver(g)),
	)
	return g
}

func (g *GlobalListeners) Close() {
	g.group.Close()
}

// onEngineFault republishes dispatch faults as system.error
func (g *GlobalListeners) onEngineFault(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(eventbus.ErrorPayload)
	if !ok {
		return nil
	}

	g.bus.Emit(ctx, events.SystemErrorTopic, events.SystemErrorEvent{
		Component:  eventbus.SourceEventBus,
		Message:    "dispatch failed for " + string(payload.OriginalEvent),
		Err:        payload.Err,
		OccurredAt: event.Timestamp,
	}, eventbus.WithSource(eventbus.SourceEventBus))
	return nil
}

func (g *GlobalListeners) onSystemError(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(events.SystemErrorEvent)
	if !ok {
		return nil
	}
	g.logger.Error(ctx, "system error",
		"component", payload.Component,
		"message", payload.Message,
		"error", payload.Err,
		"event_id", event.ID,
	)
	return nil
}

func (g *GlobalListeners) onUserLoggedIn(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(events.UserSessionEvent)
	if !ok {
		return nil
	}
	g.logger.Info(ctx, "user logged in",
		"user_id", payload.UserID,
		"role", payload.Role,
	)
	return nil
}

func (g *GlobalListeners) onSyncCompleted(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(events.DataSyncCompletedEvent)
	if !ok {
		return nil
	}
	g.logger.Info(ctx, "data sync completed",
		"purged_notifications", payload.PurgedNotifications,
		"duration_ms", payload.Duration.Milliseconds(),
	)
	return nil
}
