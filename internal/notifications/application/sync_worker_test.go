package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/notifications/application"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncOncePurgesOldReadNotifications(t *testing.T) {
	repo := newMemoryRepo()
	bus := eventbus.NewBus(logger.Nop{})
	clk := clock.NewMock()
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	clk.Set(now)

	user := uuid.New()
	seed(t, repo, user, now.Add(-40*24*time.Hour), true)  // purged
	seed(t, repo, user, now.Add(-40*24*time.Hour), false) // unread, kept
	seed(t, repo, user, now.Add(-time.Hour), true)        // recent, kept

	rec := &recorder{}
	bus.On(events.DataSyncCompletedTopic, rec.handle)

	worker := application.NewSyncWorker(repo, bus, clk, application.SyncConfig{Retention: 30 * 24 * time.Hour}, logger.Nop{})
	result, err := worker.SyncOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.PurgedNotifications)
	assert.Equal(t, now, result.StartedAt)
	assert.Len(t, repo.forUser(user), 2)
	assert.Equal(t, now.Add(-30*24*time.Hour), repo.purges[0])

	require.Len(t, rec.events, 1)
	assert.Equal(t, result, rec.events[0].Payload)
	assert.Equal(t, application.EventSource, rec.events[0].Source)
}

func TestSyncOnceReportsFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failPurge = errors.New("lock timeout")
	bus := eventbus.NewBus(logger.Nop{})

	rec := &recorder{}
	bus.On(events.DataSyncCompletedTopic, rec.handle)
	bus.On(events.SystemErrorTopic, rec.handle)

	worker := application.NewSyncWorker(repo, bus, clock.NewMock(), application.SyncConfig{}, logger.Nop{})
	_, err := worker.SyncOnce(context.Background())
	require.ErrorContains(t, err, "lock timeout")

	assert.Equal(t, []eventbus.Topic{events.SystemErrorTopic}, rec.topics())
}

func TestSyncWorkerRunsOnTicks(t *testing.T) {
	repo := newMemoryRepo()
	bus := eventbus.NewBus(logger.Nop{})
	clk := clock.NewMock()
	worker := application.NewSyncWorker(repo, bus, clk, application.SyncConfig{Interval: time.Minute}, logger.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	assert.Eventually(t, func() bool {
		clk.Add(time.Minute)
		return repo.purgeCount() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
