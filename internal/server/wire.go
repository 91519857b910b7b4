//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/casira/connect/internal/adapters/authz_adapter"
	"github.com/casira/connect/internal/adapters/postgres"
	"github.com/casira/connect/internal/adapters/rest"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	activitiesApp "github.com/casira/connect/internal/activities/application"
	authzApp "github.com/casira/connect/internal/authz/application"
	notificationsApp "github.com/casira/connect/internal/notifications/application"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/metrics"
	postsApp "github.com/casira/connect/internal/posts/application"
	usersApp "github.com/casira/connect/internal/users/application"
	"github.com/google/wire"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap and configuration
		logger.ProviderSet,
		LoadConfig,
		provideLoggerConfig,
		provideBusConfig,
		provideCacheConfig,
		provideSyncConfig,
		provideJWTConfig,
		provideVersion,
		provideClock,

		// Event bus and its metrics observer
		metrics.ProviderSet,
		eventbus.ProviderSet,
		NewGlobalListeners,

		// Database and repositories
		ConnectDatabase,
		postgres.ProviderSet,
		provideSeedOrchestrator,

		// Authorization
		provideOwnershipRegistry,
		authzApp.ProviderSet,
		authz_adapter.ProviderSet,

		// Application services
		usersApp.ProviderSet,
		activitiesApp.ProviderSet,
		postsApp.ProviderSet,
		notificationsApp.ProviderSet,

		// HTTP
		rest.ProviderSet,
		middleware.ProviderSet,
		NewHTTPServer,

		NewApp,
	)

	return nil, nil, nil
}
