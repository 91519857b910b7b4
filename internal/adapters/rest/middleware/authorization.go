package middleware

import (
	"context"
	"net/http"

	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
)

// PermissionChecker answers route-level permission questions
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permissionID string) (bool, error)
	HasAnyPermission(ctx context.Context, userID uuid.UUID, permissionIDs []string) (bool, error)
}

// AuthorizationMiddleware gates routes on role-wide permissions. Ownership of
// individual activities, posts and notifications is checked by the services.
type AuthorizationMiddleware struct {
	checker PermissionChecker
	logger  logger.Logger
}

func NewAuthorizationMiddleware(checker PermissionChecker, logger logger.Logger) *AuthorizationMiddleware {
	return &AuthorizationMiddleware{checker: checker, logger: logger}
}

// RequirePermission lets the request through only when the user's role grants permission
func (m *AuthorizationMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return m.guard([]string{permission}, func(ctx context.Context, userID uuid.UUID) (bool, error) {
		return m.checker.HasPermission(ctx, userID, permission)
	})
}

// RequireAnyPermission is RequirePermission for a set of alternatives
func (m *AuthorizationMiddleware) RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return m.guard(permissions, func(ctx context.Context, userID uuid.UUID) (bool, error) {
		return m.checker.HasAnyPermission(ctx, userID, permissions)
	})
}

type permissionCheck func(ctx context.Context, userID uuid.UUID) (bool, error)

func (m *AuthorizationMiddleware) guard(required []string, check permissionCheck) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID, ok := GetUserID(ctx)
			if !ok {
				m.logger.Warn(ctx, "authorization without authenticated user", "path", r.URL.Path)
				WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
				return
			}

			granted, err := check(ctx, userID)
			switch {
			case err != nil:
				m.logger.Error(ctx, "permission check failed", "user_id", userID, "permissions", required, "error", err)
				WriteJSONError(w, ErrorCodeInternalServerError, "Failed to check permissions", http.StatusInternalServerError)
			case !granted:
				m.logger.Warn(ctx, "permission denied", "user_id", userID, "permissions", required, "path", r.URL.Path)
				WriteJSONError(w, ErrorCodeForbidden, "Insufficient permissions", http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
