package ownership

import (
	"context"

	"github.com/google/uuid"
)

// Checker reports whether a user owns a resource of one type.
// Activities answer by creator, posts and comments by author, notifications by recipient.
type Checker interface {
	CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error)

func (f CheckerFunc) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error) {
	return f(ctx, userID, resourceID)
}

// Registry holds ownership checkers keyed by resource type ("activities", "posts", ...)
type Registry interface {
	RegisterChecker(resourceType string, checker Checker)
	GetChecker(resourceType string) (Checker, bool)
	CheckOwnership(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) (bool, error)
}
