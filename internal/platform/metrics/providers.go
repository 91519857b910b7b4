package metrics

import (
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

// ProviderSet is the wire provider set for metrics
var ProviderSet = wire.NewSet(
	NewRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	NewBusMetrics,
	wire.Bind(new(eventbus.Observer), new(*BusMetrics)),
	NewHTTPMetrics,
)
