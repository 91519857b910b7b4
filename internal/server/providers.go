package server

import (
	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/adapters/postgres"
	activitiesApp "github.com/casira/connect/internal/activities/application"
	activitiesPorts "github.com/casira/connect/internal/activities/ports"
	notificationsApp "github.com/casira/connect/internal/notifications/application"
	notificationsPorts "github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/ownership"
	"github.com/casira/connect/internal/platform/seeder"
	postsApp "github.com/casira/connect/internal/posts/application"
	postsPorts "github.com/casira/connect/internal/posts/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

func provideClock() clock.Clock {
	return clock.New()
}

// provideOwnershipRegistry registers the checker of every resource that has
// an :own permission scope
func provideOwnershipRegistry(
	activities activitiesPorts.ActivityRepository,
	posts postsPorts.PostRepository,
	notifications notificationsPorts.NotificationRepository,
	log logger.Logger,
) ownership.Registry {
	registry := ownership.NewRegistry()
	activitiesApp.RegisterActivitiesOwnership(registry, activities, log)
	postsApp.RegisterPostsOwnership(registry, posts, log)
	notificationsApp.RegisterNotificationsOwnership(registry, notifications, log)
	return registry
}

func provideSeedOrchestrator(config Config, pool *pgxpool.Pool, clk clock.Clock, log logger.Logger) *seeder.Orchestrator {
	return seeder.NewOrchestrator(log, pool, []seeder.Seeder{
		postgres.NewAdminSeeder(config.AdminEmails, clk.Now),
	})
}
