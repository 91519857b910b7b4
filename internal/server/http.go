package server

import (
	"net/http"
	"time"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/casira/connect/internal/authz/permission"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	server api.ServerInterface,
	jwtMiddleware *middleware.JWTMiddleware,
	authzMiddleware *middleware.AuthorizationMiddleware,
	authAdapter *middleware.AuthAdapter,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()
	r.Use(httpMetrics.Middleware)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	_ = api.HandlerWithOptions(server, api.ChiServerOptions{
		BaseURL:    "/api/v1",
		BaseRouter: r,
		Middlewares: []api.MiddlewareFunc{
			routeAwareChiMiddleware(routePolicy(jwtMiddleware, authzMiddleware, authAdapter)),
		},
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			middleware.WriteJSONError(w, middleware.ErrorCodeValidationError, err.Error(), http.StatusBadRequest)
		},
	})

	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      withObservability(r, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// routes maps "METHOD pattern" to its middleware chain. Patterns missing
// from specific use defaults; public patterns use none.
type routes struct {
	public   map[string]bool
	specific map[string][]api.MiddlewareFunc
	defaults []api.MiddlewareFunc
}

func routePolicy(
	jwtMiddleware *middleware.JWTMiddleware,
	authzMiddleware *middleware.AuthorizationMiddleware,
	authAdapter *middleware.AuthAdapter,
) routes {
	// JWT plus the external ID to user ID lookup
	protected := []api.MiddlewareFunc{
		wrapMiddleware(jwtMiddleware.Middleware),
		wrapMiddleware(authAdapter.Middleware),
	}

	// Registration runs before the user row exists
	jwtOnly := []api.MiddlewareFunc{
		wrapMiddleware(jwtMiddleware.Middleware),
	}

	requires := func(perm string) []api.MiddlewareFunc {
		return append(protected[:len(protected):len(protected)],
			wrapMiddleware(authzMiddleware.RequirePermission(perm)),
		)
	}

	// Ownership and the remaining permission checks happen in the services
	return routes{
		public: map[string]bool{
			"GET /api/v1/health/live":     true,
			"GET /api/v1/health/ready":    true,
			"GET /api/v1/activities":      true,
			"GET /api/v1/activities/{id}": true,
		},
		specific: map[string][]api.MiddlewareFunc{
			"POST /api/v1/users": jwtOnly,

			"GET /api/v1/users":           requires(permission.UsersReadAny),
			"PUT /api/v1/users/{id}/role": requires(permission.UsersRoleAssign),

			"GET /api/v1/system/eventbus":          requires(permission.SystemStats),
			"PUT /api/v1/system/eventbus/debug":    requires(permission.SystemStats),
			"POST /api/v1/system/cache/invalidate": requires(permission.SystemCache),
		},
		defaults: protected,
	}
}

// routeAwareChiMiddleware applies auth middlewares based on matched chi route pattern
func routeAwareChiMiddleware(policy routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi exposes the current route pattern via RouteContext
			routeCtx := chi.RouteContext(r.Context())
			method := r.Method
			if method == http.MethodHead {
				method = http.MethodGet
			}
			pattern := ""
			if routeCtx != nil {
				pattern = method + " " + routeCtx.RoutePattern()
			}

			if policy.public[pattern] {
				next.ServeHTTP(w, r)
				return
			}

			chain, ok := policy.specific[pattern]
			if !ok {
				chain = policy.defaults
			}
			handler := next
			for i := len(chain) - 1; i >= 0; i-- {
				handler = chain[i](handler)
			}
			handler.ServeHTTP(w, r)
		})
	}
}

// wrapMiddleware converts a standard middleware to oapi-codegen's MiddlewareFunc
func wrapMiddleware(mw func(http.Handler) http.Handler) api.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

// withObservability logs every request
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		handler.ServeHTTP(wrr, r)

		var userID string
		if uid, ok := middleware.GetUserID(r.Context()); ok {
			userID = uid.String()
		}

		log.Info(r.Context(), "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"user_id", userID,
		)
	})
}
