package eventbus

import (
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for the event bus.
var ProviderSet = wire.NewSet(ProvideBus)

// Config carries the settings the bus reads at startup.
type Config struct {
	Debug bool
}

// ProvideBus builds the single process-wide bus.
func ProvideBus(cfg Config, log logger.Logger, observer Observer) *Bus {
	return NewBus(log, WithDebug(cfg.Debug), WithObserver(observer))
}
