package ports

import (
	"context"
	"errors"

	"github.com/casira/connect/internal/users/domain"
	"github.com/google/uuid"
)

// ErrUserNotFound is returned by repositories when no row matches.
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.User, int, error)
}

// ListFilter contains filtering and pagination options for listing users
type ListFilter struct {
	Role   *domain.Role
	Search string // Matches username, display name or email
	Limit  int
	Offset int
}

// DefaultListFilter returns a sensible default filter
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}
