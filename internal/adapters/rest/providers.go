package rest

import (
	"github.com/benbjohnson/clock"
	activitiesApp "github.com/casira/connect/internal/activities/application"
	authzApp "github.com/casira/connect/internal/authz/application"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderSet is the wire provider set for REST handlers
var ProviderSet = wire.NewSet(
	NewBaseHandler,
	ProvideHealthHandler,
	NewUserHandler,
	NewActivitiesHandler,
	NewPostsHandler,
	NewNotificationsHandler,
	ProvideSystemHandler,
	NewServer, // Combined server that implements api.ServerInterface
)

// Version is reported by the health endpoints
type Version string

// ProvideHealthHandler checks readiness against the connection pool
func ProvideHealthHandler(base *BaseHandler, version Version, pool *pgxpool.Pool, clk clock.Clock) *HealthHandler {
	return NewHealthHandler(base, string(version), pool, clk)
}

// ProvideSystemHandler reports the caches of the services that keep one
func ProvideSystemHandler(
	base *BaseHandler,
	bus *eventbus.Bus,
	activities *activitiesApp.ActivitiesService,
	authz *authzApp.AuthzService,
) *SystemHandler {
	return NewSystemHandler(base, bus, activities, authz)
}
