package middleware

import (
	"context"

	"github.com/google/uuid"
)

type principalKey struct{}

// principal is the resolved local user behind a request
type principal struct {
	ID    uuid.UUID
	Email string
}

// SetUserID marks ctx as authenticated for userID. AuthAdapter calls it once
// the token subject resolves; tests call it directly.
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	p, _ := ctx.Value(principalKey{}).(principal)
	p.ID = userID
	return context.WithValue(ctx, principalKey{}, p)
}

func setUserEmail(ctx context.Context, email string) context.Context {
	p, _ := ctx.Value(principalKey{}).(principal)
	p.Email = email
	return context.WithValue(ctx, principalKey{}, p)
}

// GetUserID returns the authenticated user's ID
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	p, ok := ctx.Value(principalKey{}).(principal)
	if !ok || p.ID == uuid.Nil {
		return uuid.Nil, false
	}
	return p.ID, true
}

// GetUserEmail returns the email from the verified token
func GetUserEmail(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(principalKey{}).(principal)
	if !ok || p.Email == "" {
		return "", false
	}
	return p.Email, true
}
