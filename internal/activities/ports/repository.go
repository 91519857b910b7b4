package ports

import (
	"context"
	"errors"

	"github.com/casira/connect/internal/activities/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository errors (canonical errors for the repository contract)
var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrVolunteerNotFound = errors.New("volunteer not found")
	ErrAlreadyVolunteer  = errors.New("user already volunteers for this activity")
)

// ActivityRepository defines the contract for activity persistence
type ActivityRepository interface {
	// WithTx returns a repository bound to tx
	WithTx(tx pgx.Tx) ActivityRepository

	Create(ctx context.Context, activity *domain.Activity) error
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	// FindByIDForUpdate locks the row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Activity, int, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// GetCreator is used for ownership checks
	GetCreator(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

	AddVolunteer(ctx context.Context, activityID, userID uuid.UUID) error
	RemoveVolunteer(ctx context.Context, activityID, userID uuid.UUID) error
	IsVolunteer(ctx context.Context, activityID, userID uuid.UUID) (bool, error)
	ListVolunteers(ctx context.Context, activityID uuid.UUID) ([]*domain.Volunteer, error)
	VolunteerIDs(ctx context.Context, activityID uuid.UUID) ([]uuid.UUID, error)
}

// ListFilter defines filtering options for activity listings
type ListFilter struct {
	Status    *domain.Status
	Priority  *domain.Priority
	CreatorID *uuid.UUID
	Tag       string
	Search    string // Matches title or description
	Limit     int
	Offset    int
}

// DefaultListFilter returns the first page of all activities.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 20}
}
