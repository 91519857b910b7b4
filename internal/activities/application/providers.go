package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for activities application services
var ProviderSet = wire.NewSet(
	NewActivitiesService,
)
