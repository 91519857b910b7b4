package logger

import (
	"log/slog"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewBootstrapLogger,
	NewConfiguredLogger,
	wire.Bind(new(Logger), new(*SlogAdapter)),
)

// Config selects the handler (text in development, JSON elsewhere) and level
type Config struct {
	Environment string
	LogLevel    string
}

// NewConfiguredLogger builds the application logger and installs it as the
// slog default so library output shares the same handler.
func NewConfiguredLogger(config Config) *SlogAdapter {
	adapter := NewSlogAdapter(config.Environment, config.LogLevel)
	slog.SetDefault(adapter.logger)
	return adapter
}
