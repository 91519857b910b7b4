package middleware

import (
	"context"
	"errors"

	authzApp "github.com/casira/connect/internal/authz/application"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/users/ports"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideJWTMiddleware,
	ProvideAuthAdapter,
	ProvideAuthorizationMiddleware,
)

// JWTConfig names the identity provider tokens are checked against
type JWTConfig struct {
	JWKS   string
	Issuer string
}

// ProvideJWTMiddleware fetches the provider's key set before the server starts
// so a misconfigured endpoint fails at boot.
func ProvideJWTMiddleware(ctx context.Context, cfg JWTConfig) (*JWTMiddleware, error) {
	if cfg.JWKS == "" {
		return nil, errors.New("middleware: JWKS endpoint is required")
	}
	return NewJWTMiddleware(ctx, cfg.JWKS, cfg.Issuer)
}

// ProvideAuthAdapter resolves JWT subjects to volunteer profiles
func ProvideAuthAdapter(users ports.UserRepository, log logger.Logger) *AuthAdapter {
	return NewAuthAdapter(users, log)
}

// ProvideAuthorizationMiddleware guards routes with authz permission checks
func ProvideAuthorizationMiddleware(authz *authzApp.AuthzService, log logger.Logger) *AuthorizationMiddleware {
	return NewAuthorizationMiddleware(authz, log)
}
