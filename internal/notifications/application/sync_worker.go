package application

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
)

const (
	DefaultSyncInterval = time.Hour
	DefaultRetention    = 30 * 24 * time.Hour
)

// SyncConfig controls the maintenance job
type SyncConfig struct {
	Interval  time.Duration
	Retention time.Duration // Read notifications older than this are purged
}

// SyncWorker periodically purges old read notifications
type SyncWorker struct {
	repo     ports.NotificationRepository
	eventBus *eventbus.Bus
	clock    clock.Clock
	cfg      SyncConfig
	logger   logger.Logger
}

func NewSyncWorker(
	repo ports.NotificationRepository,
	eventBus *eventbus.Bus,
	clk clock.Clock,
	cfg SyncConfig,
	logger logger.Logger,
) *SyncWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSyncInterval
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	return &SyncWorker{
		repo:     repo,
		eventBus: eventBus,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run syncs on every tick until ctx is cancelled. A failed run is reported
// and the next tick tries again.
func (w *SyncWorker) Run(ctx context.Context) error {
	ticker := w.clock.Ticker(w.cfg.Interval)
	defer ticker.Stop()

	w.logger.Info(ctx, "sync worker started", "interval", w.cfg.Interval, "retention", w.cfg.Retention)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "sync worker stopped")
			return nil
		case <-ticker.C:
			_, _ = w.SyncOnce(ctx)
		}
	}
}

// SyncOnce runs one maintenance pass and publishes data.sync_completed
func (w *SyncWorker) SyncOnce(ctx context.Context) (events.DataSyncCompletedEvent, error) {
	started := w.clock.Now()

	purged, err := w.repo.PurgeRead(ctx, started.Add(-w.cfg.Retention))
	if err != nil {
		err = fmt.Errorf("purge read notifications: %w", err)
		w.logger.Error(ctx, "sync failed", "error", err)
		w.eventBus.Emit(ctx, events.SystemErrorTopic, events.SystemErrorEvent{
			Component:  "SyncWorker",
			Message:    "notification sync failed",
			Err:        err,
			OccurredAt: w.clock.Now(),
		}, eventbus.WithSource(EventSource))
		return events.DataSyncCompletedEvent{}, err
	}

	result := events.DataSyncCompletedEvent{
		PurgedNotifications: purged,
		StartedAt:           started,
		Duration:            w.clock.Since(started),
	}
	w.eventBus.Emit(ctx, events.DataSyncCompletedTopic, result, eventbus.WithSource(EventSource))
	return result, nil
}
