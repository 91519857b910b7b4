package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/users/domain"
	"github.com/casira/connect/internal/users/ports"
)

// UserLookup is the slice of the user repository the adapter needs
type UserLookup interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}

// AuthAdapter resolves the identity provider subject (the JWT 'sub' claim
// set by JWTMiddleware) to the internal user ID, so authorization and
// handlers work with canonical UUIDs.
//
// This puts one indexed lookup on every authenticated request.
type AuthAdapter struct {
	users  UserLookup
	logger logger.Logger
}

// NewAuthAdapter creates a new authentication adapter
func NewAuthAdapter(users UserLookup, logger logger.Logger) *AuthAdapter {
	return &AuthAdapter{
		users:  users,
		logger: logger,
	}
}

// Middleware must be placed AFTER JWT middleware and BEFORE authorization middleware
func (a *AuthAdapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		subject, ok := GetJWTUserID(ctx)
		if !ok {
			a.logger.Warn(ctx, "subject not found in context")
			WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
			return
		}

		user, err := a.users.FindByExternalID(ctx, subject)
		if err != nil {
			if errors.Is(err, ports.ErrUserNotFound) {
				WriteJSONError(w, ErrorCodeNotFound, "User profile not found", http.StatusNotFound)
				return
			}
			a.logger.Error(ctx, "failed to get user by external ID",
				"external_id", subject,
				"error", err,
			)
			WriteJSONError(w, ErrorCodeInternalServerError, "Failed to resolve user", http.StatusInternalServerError)
			return
		}

		ctx = SetUserID(ctx, user.ID)
		if email, ok := GetJWTUserEmail(ctx); ok {
			ctx = setUserEmail(ctx, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
