package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSubjectNotFound is returned when the user being authorized does not exist.
var ErrSubjectNotFound = errors.New("authorization subject not found")

// RoleReader resolves the role name currently held by a user. Roles live on
// the user profile, so the users module is the source of truth.
type RoleReader interface {
	GetUserRole(ctx context.Context, userID uuid.UUID) (string, error)
}
