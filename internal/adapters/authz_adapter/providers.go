package authz_adapter

import (
	activitiesPorts "github.com/casira/connect/internal/activities/ports"
	notificationsPorts "github.com/casira/connect/internal/notifications/ports"
	postsPorts "github.com/casira/connect/internal/posts/ports"
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for the authorization adapter
var ProviderSet = wire.NewSet(
	NewAuthzAdapter,
	// Bind the AuthzAdapter to every module's Authorizer port
	wire.Bind(new(activitiesPorts.Authorizer), new(*AuthzAdapter)),
	wire.Bind(new(postsPorts.Authorizer), new(*AuthzAdapter)),
	wire.Bind(new(notificationsPorts.Authorizer), new(*AuthzAdapter)),
)
