package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/adapters/rest"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mark(name string) api.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRouteAwareChiMiddleware(t *testing.T) {
	policy := routes{
		public:   map[string]bool{"GET /api/v1/activities": true},
		specific: map[string][]api.MiddlewareFunc{"GET /api/v1/users": {mark("jwt"), mark("permission")}},
		defaults: []api.MiddlewareFunc{mark("jwt"), mark("user")},
	}

	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	r := chi.NewRouter()
	mw := routeAwareChiMiddleware(policy)
	r.With(mw).Get("/api/v1/activities", ok)
	r.With(mw).Get("/api/v1/users", ok)
	r.With(mw).Get("/api/v1/users/{id}", ok)

	tests := []struct {
		name      string
		path      string
		wantChain []string
	}{
		{"public route runs no middleware", "/api/v1/activities", nil},
		{"specific route runs its own chain", "/api/v1/users", []string{"jwt", "permission"}},
		{"other routes run the defaults", "/api/v1/users/42", []string{"jwt", "user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantChain, rec.Header().Values("X-Chain"))
		})
	}
}

func TestRoutePolicy_MatchesRegisteredRoutes(t *testing.T) {
	r := chi.NewRouter()
	api.HandlerWithOptions(rest.NewServer(nil, nil, nil, nil, nil, nil), api.ChiServerOptions{
		BaseURL:    "/api/v1",
		BaseRouter: r,
	})

	registered := map[string]bool{}
	require.NoError(t, chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	}))

	policy := routePolicy(
		middleware.NewJWTMiddlewareWithKeys(nil, "issuer"),
		middleware.NewAuthorizationMiddleware(nil, logger.Nop{}),
		middleware.NewAuthAdapter(nil, logger.Nop{}),
	)

	for pattern := range policy.public {
		assert.True(t, registered[pattern], "public pattern %q is not a route", pattern)
	}
	for pattern, chain := range policy.specific {
		assert.True(t, registered[pattern], "pattern %q is not a route", pattern)
		assert.NotEmpty(t, chain)
	}
	assert.Len(t, policy.defaults, 2)
}
