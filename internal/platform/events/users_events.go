package events

import (
	"time"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/google/uuid"
)

// User event topics
const (
	UserLoggedInTopic       eventbus.Topic = "user.logged_in"
	UserLoggedOutTopic      eventbus.Topic = "user.logged_out"
	UserRegisteredTopic     eventbus.Topic = "user.registered"
	UserProfileUpdatedTopic eventbus.Topic = "user.profile_updated"
	UserRoleChangedTopic    eventbus.Topic = "user.role_changed"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	UserID     uuid.UUID
	Email      string
	Username   string
	Role       string
	OccurredAt time.Time
}

// UserProfileUpdatedEvent is published when a user edits their profile
type UserProfileUpdatedEvent struct {
	UserID        uuid.UUID
	ChangedFields []string
	OccurredAt    time.Time
}

// UserRoleChangedEvent is published when an admin changes a user's role
type UserRoleChangedEvent struct {
	UserID     uuid.UUID
	ActorID    uuid.UUID // Admin who made the change
	OldRole    string
	NewRole    string
	OccurredAt time.Time
}

// UserSessionEvent is published on login and logout
type UserSessionEvent struct {
	UserID     uuid.UUID
	Email      string
	Role       string
	OccurredAt time.Time
}
