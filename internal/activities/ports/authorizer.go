package ports

import (
	"context"

	"github.com/google/uuid"
)

// Authorizer is a driven port the activities module uses to check permissions
type Authorizer interface {
	Can(ctx context.Context, userID uuid.UUID, resource string, action string, resourceID *uuid.UUID) (bool, error)
}
