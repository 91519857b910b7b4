package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var (
	ErrMissingToken   = errors.New("missing authentication token")
	ErrInvalidToken   = errors.New("invalid authentication token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingSubject = errors.New("missing subject in token")
	ErrMissingEmail   = errors.New("missing email in token")
)

// clockSkew tolerates small drift between us and the identity provider
const clockSkew = 30 * time.Second

// Claims are the verified token fields later middleware relies on
type Claims struct {
	Subject string
	Email   string
}

type claimsKey struct{}

// SetJWTClaims stores verified claims on ctx
func SetJWTClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func jwtClaims(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)
	return c, ok
}

// KeySource returns the key set tokens are verified against
type KeySource func(ctx context.Context) (jwk.Set, error)

type JWTMiddleware struct {
	keys   KeySource
	issuer string
}

// NewJWTMiddleware fetches the identity provider's JWKS once and keeps it refreshed
func NewJWTMiddleware(ctx context.Context, jwksEndpoint string, issuer string) (*JWTMiddleware, error) {
	cache, err := jwk.NewCache(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if err := cache.Register(ctx, jwksEndpoint); err != nil {
		return nil, fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	// Initial fetch validates the URL
	if _, err := cache.Lookup(ctx, jwksEndpoint); err != nil {
		return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
	}

	return NewJWTMiddlewareWithKeys(func(ctx context.Context) (jwk.Set, error) {
		return cache.Lookup(ctx, jwksEndpoint)
	}, issuer), nil
}

// NewJWTMiddlewareWithKeys builds the middleware over any key source
func NewJWTMiddlewareWithKeys(keys KeySource, issuer string) *JWTMiddleware {
	return &JWTMiddleware{keys: keys, issuer: issuer}
}

func (m *JWTMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, ErrorCodeUnauthorized, ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			WriteJSONError(w, ErrorCodeUnauthorized, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		keySet, err := m.keys(r.Context())
		if err != nil {
			WriteJSONError(w, ErrorCodeInternalServerError, "Failed to get JWKS", http.StatusInternalServerError)
			return
		}

		token, err := jwt.ParseString(
			tokenString,
			jwt.WithKeySet(keySet),
			jwt.WithValidate(true),
			jwt.WithIssuer(m.issuer),
			jwt.WithAcceptableSkew(clockSkew),
		)
		if err != nil {
			code, reason := ErrorCodeInvalidToken, ErrInvalidToken
			if isExpired(err) {
				code, reason = ErrorCodeTokenExpired, ErrTokenExpired
			}
			WriteJSONError(w, code, reason.Error(), http.StatusUnauthorized)
			return
		}

		var claims Claims
		if err := token.Get("sub", &claims.Subject); err != nil || claims.Subject == "" {
			WriteJSONError(w, ErrorCodeInvalidToken, ErrMissingSubject.Error(), http.StatusUnauthorized)
			return
		}
		if err := token.Get("email", &claims.Email); err != nil || claims.Email == "" {
			WriteJSONError(w, ErrorCodeInvalidToken, ErrMissingEmail.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetJWTClaims(r.Context(), claims)))
	})
}

func isExpired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp not satisfied") || strings.Contains(msg, "expired")
}

// GetJWTUserID returns the token subject
func GetJWTUserID(ctx context.Context) (string, bool) {
	c, ok := jwtClaims(ctx)
	return c.Subject, ok
}

// GetJWTUserEmail returns the token's email claim
func GetJWTUserEmail(ctx context.Context) (string, bool) {
	c, ok := jwtClaims(ctx)
	return c.Email, ok
}
