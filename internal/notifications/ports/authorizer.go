package ports

import (
	"context"

	"github.com/google/uuid"
)

// Authorizer is a driven port the notifications module uses to check permissions
type Authorizer interface {
	Can(ctx context.Context, userID uuid.UUID, resource string, action string, resourceID *uuid.UUID) (bool, error)

	// HasPermission checks a full permission ID such as "notifications:read:own"
	HasPermission(ctx context.Context, userID uuid.UUID, permissionID string) (bool, error)
}
