package authz_adapter

import (
	"context"

	activitiesPorts "github.com/casira/connect/internal/activities/ports"
	authzApp "github.com/casira/connect/internal/authz/application"
	notificationsPorts "github.com/casira/connect/internal/notifications/ports"
	postsPorts "github.com/casira/connect/internal/posts/ports"
	"github.com/google/uuid"
)

// AuthzAdapter is the unified adapter that bridges the authz service
// with all bounded contexts that need authorization.
// It implements multiple Authorizer interfaces from different modules.
type AuthzAdapter struct {
	authzService *authzApp.AuthzService
}

// NewAuthzAdapter creates a new authorization adapter
func NewAuthzAdapter(authzService *authzApp.AuthzService) *AuthzAdapter {
	return &AuthzAdapter{
		authzService: authzService,
	}
}

// Can checks if a user has permission to perform an action on a resource
func (a *AuthzAdapter) Can(ctx context.Context, userID uuid.UUID, resource string, action string, resourceID *uuid.UUID) (bool, error) {
	return a.authzService.Can(ctx, userID, resource, action, resourceID)
}

// HasRole reports whether the user's role includes the named one
func (a *AuthzAdapter) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	return a.authzService.HasRole(ctx, userID, role)
}

// HasPermission checks a fully qualified permission ID
func (a *AuthzAdapter) HasPermission(ctx context.Context, userID uuid.UUID, permissionID string) (bool, error) {
	return a.authzService.HasPermission(ctx, userID, permissionID)
}

// Compile-time checks to ensure we implement the interfaces
var (
	_ activitiesPorts.Authorizer    = (*AuthzAdapter)(nil)
	_ postsPorts.Authorizer         = (*AuthzAdapter)(nil)
	_ notificationsPorts.Authorizer = (*AuthzAdapter)(nil)
)
