package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/users/domain"
	"github.com/casira/connect/internal/users/ports"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	granted map[string]bool
	err     error
}

func (f *fakeChecker) HasPermission(_ context.Context, _ uuid.UUID, permissionID string) (bool, error) {
	return f.granted[permissionID], f.err
}

func (f *fakeChecker) HasAnyPermission(_ context.Context, _ uuid.UUID, permissionIDs []string) (bool, error) {
	for _, id := range permissionIDs {
		if f.granted[id] {
			return true, f.err
		}
	}
	return false, f.err
}

type fakeUsers struct {
	bySubject map[string]*domain.User
	err       error
}

func (f *fakeUsers) FindByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.bySubject[externalID]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	return u, nil
}

// reached records whether the wrapped handler ran
func reached(flag *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*flag = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func TestRequirePermission(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		ctx        context.Context
		checker    *fakeChecker
		wantStatus int
		wantCode   string
	}{
		{"granted", SetUserID(context.Background(), userID), &fakeChecker{granted: map[string]bool{"system:stats": true}}, http.StatusNoContent, ""},
		{"denied", SetUserID(context.Background(), userID), &fakeChecker{}, http.StatusForbidden, ErrorCodeForbidden},
		{"checker failure", SetUserID(context.Background(), userID), &fakeChecker{err: errors.New("db down")}, http.StatusInternalServerError, ErrorCodeInternalServerError},
		{"anonymous", context.Background(), &fakeChecker{}, http.StatusUnauthorized, ErrorCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthorizationMiddleware(tt.checker, logger.Nop{})
			var ran bool
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)

			m.RequirePermission("system:stats")(reached(&ran)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode == "", ran)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	m := NewAuthorizationMiddleware(&fakeChecker{granted: map[string]bool{"system:cache": true}}, logger.Nop{})
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(SetUserID(context.Background(), uuid.New()))

	var ran bool
	rec := httptest.NewRecorder()
	m.RequireAnyPermission("system:stats", "system:cache")(reached(&ran)).ServeHTTP(rec, req)
	assert.True(t, ran)

	ran = false
	rec = httptest.NewRecorder()
	m.RequireAnyPermission("users:read:any")(reached(&ran)).ServeHTTP(rec, req)
	assert.False(t, ran)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthAdapter(t *testing.T) {
	user := &domain.User{ID: uuid.New()}
	withSubject := func(sub string) context.Context {
		return SetJWTClaims(context.Background(), Claims{Subject: sub, Email: "ana@example.org"})
	}

	tests := []struct {
		name       string
		ctx        context.Context
		users      *fakeUsers
		wantStatus int
	}{
		{"resolves subject", withSubject("auth0|ana"), &fakeUsers{bySubject: map[string]*domain.User{"auth0|ana": user}}, http.StatusOK},
		{"unknown subject", withSubject("auth0|ghost"), &fakeUsers{}, http.StatusNotFound},
		{"lookup failure", withSubject("auth0|ana"), &fakeUsers{err: errors.New("db down")}, http.StatusInternalServerError},
		{"no subject", context.Background(), &fakeUsers{}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			var gotEmail string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetUserID(r.Context())
				gotEmail, _ = GetUserEmail(r.Context())
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			NewAuthAdapter(tt.users, logger.Nop{}).Middleware(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, user.ID, gotID)
				assert.Equal(t, "ana@example.org", gotEmail)
			}
		})
	}
}

func TestJWTMiddleware_RejectsBadHeaders(t *testing.T) {
	keys := func(context.Context) (jwk.Set, error) { return jwk.NewSet(), nil }
	failingKeys := func(context.Context) (jwk.Set, error) { return nil, errors.New("jwks unreachable") }

	tests := []struct {
		name       string
		header     string
		keys       KeySource
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", keys, http.StatusUnauthorized, ErrorCodeUnauthorized},
		{"not a bearer token", "Basic abc", keys, http.StatusUnauthorized, ErrorCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", keys, http.StatusUnauthorized, ErrorCodeInvalidToken},
		{"jwks unavailable", "Bearer not-a-jwt", failingKeys, http.StatusInternalServerError, ErrorCodeInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran bool
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			NewJWTMiddlewareWithKeys(tt.keys, "https://issuer.example").Middleware(reached(&ran)).ServeHTTP(rec, req)

			assert.False(t, ran)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}
