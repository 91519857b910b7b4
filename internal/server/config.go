package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casira/connect/internal/adapters/rest"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	notificationsApp "github.com/casira/connect/internal/notifications/application"
	"github.com/casira/connect/internal/platform/cache"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`
	DatabaseMaxConns      int32         `mapstructure:"DATABASE_MAX_CONNS"`
	JWKSEndpoint          string        `mapstructure:"JWKS_ENDPOINT"` // JWKS endpoint for JWT validation
	JWTIssuer             string        `mapstructure:"JWT_ISSUER"`    // Expected JWT issuer
	ServerAddress         string        `mapstructure:"SERVER_ADDRESS"`
	Environment           string        `mapstructure:"ENVIRONMENT"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"` // debug, info, warn, error
	Version               string        `mapstructure:"VERSION"`
	EventBusDebug         bool          `mapstructure:"EVENTBUS_DEBUG"`
	NotificationRetention time.Duration `mapstructure:"NOTIFICATION_RETENTION"`
	SyncInterval          time.Duration `mapstructure:"SYNC_INTERVAL"`
	CacheSize             int           `mapstructure:"CACHE_SIZE"`
	AdminEmails           []string      `mapstructure:"ADMIN_EMAILS"` // Comma separated; promoted to admin on start
}

var configKeys = []string{
	"DATABASE_URL", "DATABASE_MAX_CONNS", "JWKS_ENDPOINT", "JWT_ISSUER", "SERVER_ADDRESS", "ENVIRONMENT", "LOG_LEVEL",
	"VERSION", "EVENTBUS_DEBUG", "NOTIFICATION_RETENTION", "SYNC_INTERVAL", "CACHE_SIZE", "ADMIN_EMAILS",
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// A missing .env is fine; the environment alone is enough
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	config, err := readConfig(viper.New())
	if err != nil {
		bootstrapLogger.Error(ctx, "failed to load configuration", "error", err)
		return Config{}, err
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"eventbus_debug", config.EventBusDebug,
		"sync_interval", config.SyncInterval,
	)
	return config, nil
}

// readConfig binds the environment into Config and validates it
func readConfig(v *viper.Viper) (Config, error) {
	v.SetDefault("DATABASE_URL", "postgresql://localhost:5432/casira?sslmode=disable")
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", "1.0.0")
	v.SetDefault("EVENTBUS_DEBUG", false)
	v.SetDefault("NOTIFICATION_RETENTION", notificationsApp.DefaultRetention)
	v.SetDefault("SYNC_INTERVAL", notificationsApp.DefaultSyncInterval)
	v.SetDefault("CACHE_SIZE", cache.DefaultSize)
	v.SetDefault("ADMIN_EMAILS", []string{})

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only sees keys viper knows about
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return config, config.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.JWKSEndpoint == "" {
		errs = append(errs, errors.New("JWKS_ENDPOINT is required"))
	}
	if c.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if c.DatabaseMaxConns <= 0 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS must be positive"))
	}
	if c.SyncInterval <= 0 {
		errs = append(errs, errors.New("SYNC_INTERVAL must be positive"))
	}
	if c.NotificationRetention <= 0 {
		errs = append(errs, errors.New("NOTIFICATION_RETENTION must be positive"))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, errors.New("CACHE_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

func provideBusConfig(config Config) eventbus.Config {
	return eventbus.Config{Debug: config.EventBusDebug}
}

func provideCacheConfig(config Config) cache.Config {
	return cache.Config{Size: config.CacheSize}
}

func provideSyncConfig(config Config) notificationsApp.SyncConfig {
	return notificationsApp.SyncConfig{
		Interval:  config.SyncInterval,
		Retention: config.NotificationRetention,
	}
}

func provideJWTConfig(config Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		JWKS:   config.JWKSEndpoint,
		Issuer: config.JWTIssuer,
	}
}

func provideVersion(config Config) rest.Version {
	return rest.Version(config.Version)
}
