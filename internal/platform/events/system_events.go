package events

import (
	"time"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/google/uuid"
)

// System event topics
const (
	SystemErrorTopic         eventbus.Topic = "system.error"
	NotificationCreatedTopic eventbus.Topic = "notification.created"
	DataSyncCompletedTopic   eventbus.Topic = "data.sync_completed"
	CacheInvalidateTopic     eventbus.Topic = "cache.invalidate"
)

// SystemErrorEvent reports a failure that no caller could return
type SystemErrorEvent struct {
	Component  string
	Message    string
	Err        error
	OccurredAt time.Time
}

// NotificationCreatedEvent is published after a notification is stored
type NotificationCreatedEvent struct {
	NotificationID uuid.UUID
	UserID         uuid.UUID
	Kind           string
	Title          string
	OccurredAt     time.Time
}

// DataSyncCompletedEvent is published after each maintenance sync run
type DataSyncCompletedEvent struct {
	PurgedNotifications int64
	StartedAt           time.Time
	Duration            time.Duration
}

// CacheInvalidateEvent asks caches to drop entries. An empty Pattern clears everything.
type CacheInvalidateEvent struct {
	Pattern string
}
