package domain

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer is a user's sign-up for an activity.
type Volunteer struct {
	ActivityID uuid.UUID
	UserID     uuid.UUID
	Username   string // Joined from users
	JoinedAt   time.Time
}
