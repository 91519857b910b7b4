package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/casira/connect/internal/authz/domain"
	"github.com/casira/connect/internal/authz/permission"
	"github.com/casira/connect/internal/authz/ports"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/cache"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/ownership"
	"github.com/google/uuid"
)

// Error definitions for service operations using AppError
var (
	ErrUnauthorized = apperror.New(
		apperror.CodeUnauthorized,
		apperror.BusinessCodePermissionDenied,
		"unauthorized",
		http.StatusUnauthorized,
	)
	ErrInvalidPermission = apperror.New(
		apperror.CodeBadRequest,
		apperror.BusinessCodeInvalidFormat,
		"invalid permission",
		http.StatusBadRequest,
	)
)

// AuthzService answers permission questions from the static role table.
// Role lookups are cached and dropped when a user.role_changed event arrives.
type AuthzService struct {
	roles             ports.RoleReader
	ownershipRegistry ownership.Registry
	roleCache         *cache.Cache[string]
	logger            logger.Logger
	unsubscribe       eventbus.Unsubscribe
}

// NewAuthzService creates a new authorization service
func NewAuthzService(
	roles ports.RoleReader,
	ownershipRegistry ownership.Registry,
	bus *eventbus.Bus,
	cacheCfg cache.Config,
	logger logger.Logger,
) (*AuthzService, error) {
	roleCache, err := cache.New[string]("authz_roles", cacheCfg.EntriesPerCache(), logger)
	if err != nil {
		return nil, fmt.Errorf("NewAuthzService: %w", err)
	}

	s := &AuthzService{
		roles:             roles,
		ownershipRegistry: ownershipRegistry,
		roleCache:         roleCache,
		logger:            logger,
	}
	s.unsubscribe = roleCache.InvalidateOn(bus, string(events.UserRoleChangedTopic), func(e eventbus.Event) (string, bool) {
		payload, ok := e.Payload.(events.UserRoleChangedEvent)
		if !ok {
			return "", false
		}
		return roleKey(payload.UserID), true
	})
	return s, nil
}

// Close detaches the service from the bus.
func (s *AuthzService) Close() {
	s.unsubscribe()
}

// CacheStats exposes the role cache counters.
func (s *AuthzService) CacheStats() cache.Stats {
	return s.roleCache.Stats()
}

// ===== QUERY OPERATIONS =====

// HasPermission reports whether the user's role grants permissionID. Unknown
// permission IDs are an error rather than a denial.
func (s *AuthzService) HasPermission(ctx context.Context, userID uuid.UUID, permissionID string) (bool, error) {
	if err := s.validatePermissionID(permissionID); err != nil {
		s.logger.Warn(ctx, "invalid permission requested",
			"user_id", userID,
			"permission", permissionID,
		)
		return false, err
	}

	role, err := s.userRole(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to check permission",
			"user_id", userID,
			"permission", permissionID,
			"error", err,
		)
		return false, fmt.Errorf("AuthzService.HasPermission: %w", err)
	}

	return role.HasPermission(permissionID), nil
}

// HasPermissionForResource resolves ":own"/":self" grants against the
// ownership registry. Holders of the ":any" variant pass without a lookup.
func (s *AuthzService) HasPermissionForResource(
	ctx context.Context,
	userID uuid.UUID,
	permissionID string,
	resourceType string,
	resourceID uuid.UUID,
) (bool, error) {
	perm, exists := permission.FromID(permissionID)
	if !exists {
		return false, fmt.Errorf("%w: %s", ErrInvalidPermission, permissionID)
	}

	role, err := s.userRole(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("AuthzService.HasPermissionForResource: %w", err)
	}

	if perm.Scope == domain.ScopeOwn || perm.Scope == domain.ScopeSelf {
		if anyID := permission.AnyVariant(permissionID); permission.IsValid(anyID) && role.HasPermission(anyID) {
			return true, nil
		}
		if !role.HasPermission(permissionID) {
			return false, nil
		}

		isOwner, err := s.checkOwnership(ctx, userID, resourceType, resourceID)
		if err != nil {
			return false, fmt.Errorf("AuthzService.HasPermissionForResource (ownership check): %w", err)
		}
		return isOwner, nil
	}

	return role.HasPermission(permissionID), nil
}

// HasAnyPermission reports whether the user's role grants at least one of permissionIDs
func (s *AuthzService) HasAnyPermission(ctx context.Context, userID uuid.UUID, permissionIDs []string) (bool, error) {
	granted, err := s.countGranted(ctx, userID, permissionIDs)
	if err != nil {
		return false, fmt.Errorf("AuthzService.HasAnyPermission: %w", err)
	}
	return granted > 0, nil
}

// HasAllPermissions reports whether the user's role grants every one of permissionIDs
func (s *AuthzService) HasAllPermissions(ctx context.Context, userID uuid.UUID, permissionIDs []string) (bool, error) {
	granted, err := s.countGranted(ctx, userID, permissionIDs)
	if err != nil {
		return false, fmt.Errorf("AuthzService.HasAllPermissions: %w", err)
	}
	return granted == len(permissionIDs), nil
}

// Can checks if a user may perform action on resource. With a resourceID the
// ownership-scoped variant is checked, so owners and "any" holders pass.
func (s *AuthzService) Can(ctx context.Context, userID uuid.UUID, resource string, action string, resourceID *uuid.UUID) (bool, error) {
	permissionID := fmt.Sprintf("%s:%s", resource, action)

	if resourceID == nil {
		return s.HasPermission(ctx, userID, permissionID)
	}

	return s.HasPermissionForResource(ctx, userID, permissionID+":"+domain.ScopeOwn, resource, *resourceID)
}

// HasRole checks if a user currently holds roleName
func (s *AuthzService) HasRole(ctx context.Context, userID uuid.UUID, roleName string) (bool, error) {
	role, err := s.userRole(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("AuthzService.HasRole: %w", err)
	}
	return role.Name == roleName, nil
}

// GetUserPermissions returns the permission IDs granted to a user
func (s *AuthzService) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	role, err := s.userRole(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("AuthzService.GetUserPermissions: %w", err)
	}
	return role.PermissionIDs(), nil
}

// ===== HELPERS =====

func (s *AuthzService) userRole(ctx context.Context, userID uuid.UUID) (*domain.Role, error) {
	name, err := s.roleCache.GetOrLoad(roleKey(userID), func() (string, error) {
		return s.roles.GetUserRole(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, ports.ErrSubjectNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	role, err := domain.RoleByName(name)
	if err != nil {
		return nil, fmt.Errorf("user %s has unknown role %q: %w", userID, name, err)
	}
	return role, nil
}

func (s *AuthzService) countGranted(ctx context.Context, userID uuid.UUID, permissionIDs []string) (int, error) {
	if err := s.validatePermissionIDs(permissionIDs); err != nil {
		return 0, err
	}
	role, err := s.userRole(ctx, userID)
	if err != nil {
		return 0, err
	}
	granted := 0
	for _, id := range permissionIDs {
		if role.HasPermission(id) {
			granted++
		}
	}
	return granted, nil
}

func (s *AuthzService) validatePermissionID(permissionID string) error {
	if !permission.IsValid(permissionID) {
		return fmt.Errorf("%w: %s", ErrInvalidPermission, permissionID)
	}
	return nil
}

func (s *AuthzService) validatePermissionIDs(permissionIDs []string) error {
	for _, id := range permissionIDs {
		if err := s.validatePermissionID(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthzService) checkOwnership(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) (bool, error) {
	if s.ownershipRegistry == nil {
		s.logger.Warn(ctx, "ownership registry not configured",
			"resource_type", resourceType,
		)
		return false, nil
	}

	isOwner, err := s.ownershipRegistry.CheckOwnership(ctx, userID, resourceType, resourceID)
	if err != nil {
		return false, fmt.Errorf("checkOwnership: %w", err)
	}

	return isOwner, nil
}

func roleKey(userID uuid.UUID) string {
	return "user:" + userID.String()
}
