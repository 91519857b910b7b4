package events

import (
	"time"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/google/uuid"
)

// Activity event topics
const (
	ActivityCreatedTopic         eventbus.Topic = "activity.created"
	ActivityUpdatedTopic         eventbus.Topic = "activity.updated"
	ActivityDeletedTopic         eventbus.Topic = "activity.deleted"
	ActivityVolunteerJoinedTopic eventbus.Topic = "activity.volunteer_joined"
	ActivityVolunteerLeftTopic   eventbus.Topic = "activity.volunteer_left"
	ActivityStatusChangedTopic   eventbus.Topic = "activity.status_changed"
)

// ActivityTopicPattern matches every activity topic.
const ActivityTopicPattern = "activity.*"

// ActivityCreatedEvent is published when a new activity is created
type ActivityCreatedEvent struct {
	ActivityID uuid.UUID
	ActorID    uuid.UUID // Creator of the activity
	Title      string
	Status     string
	Priority   string
	OccurredAt time.Time
}

// ActivityUpdatedEvent is published when an activity's details change
type ActivityUpdatedEvent struct {
	ActivityID uuid.UUID
	ActorID    uuid.UUID
	Title      string
	OccurredAt time.Time
}

// ActivityDeletedEvent is published when an activity is deleted
type ActivityDeletedEvent struct {
	ActivityID uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

// ActivityVolunteerEvent is published when a volunteer joins or leaves
type ActivityVolunteerEvent struct {
	ActivityID        uuid.UUID
	CreatorID         uuid.UUID
	VolunteerID       uuid.UUID
	Title             string
	CurrentVolunteers int
	MaxVolunteers     *int
	OccurredAt        time.Time
}

// ActivityStatusChangedEvent is published when an activity moves through its lifecycle
type ActivityStatusChangedEvent struct {
	ActivityID uuid.UUID
	ActorID    uuid.UUID
	Title      string
	OldStatus  string
	NewStatus  string
	Volunteers []uuid.UUID // Volunteers signed up at the time of the change
	OccurredAt time.Time
}
