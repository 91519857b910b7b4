package postgres

import (
	activitiesPorts "github.com/casira/connect/internal/activities/ports"
	authzPorts "github.com/casira/connect/internal/authz/ports"
	notificationsPorts "github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/postgres"
	postsPorts "github.com/casira/connect/internal/posts/ports"
	usersPorts "github.com/casira/connect/internal/users/ports"
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for postgres repositories
var ProviderSet = wire.NewSet(
	postgres.NewTransactionManager,

	NewUserRepository,
	wire.Bind(new(usersPorts.UserRepository), new(*UserRepository)),
	// Roles live on the users table
	wire.Bind(new(authzPorts.RoleReader), new(*UserRepository)),

	NewActivityRepository,
	wire.Bind(new(activitiesPorts.ActivityRepository), new(*ActivityRepository)),

	NewPostRepository,
	wire.Bind(new(postsPorts.PostRepository), new(*PostRepository)),

	NewNotificationRepository,
	wire.Bind(new(notificationsPorts.NotificationRepository), new(*NotificationRepository)),
)

// Compile-time checks to ensure the repositories implement their ports
var (
	_ usersPorts.UserRepository                 = (*UserRepository)(nil)
	_ authzPorts.RoleReader                     = (*UserRepository)(nil)
	_ activitiesPorts.ActivityRepository        = (*ActivityRepository)(nil)
	_ postsPorts.PostRepository                 = (*PostRepository)(nil)
	_ notificationsPorts.NotificationRepository = (*NotificationRepository)(nil)
)
