package server

import (
	"testing"
	"time"

	notificationsApp "github.com/casira/connect/internal/notifications/application"
	"github.com/casira/connect/internal/platform/cache"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWKS_ENDPOINT", "https://auth.example.org/.well-known/jwks.json")
	t.Setenv("JWT_ISSUER", "https://auth.example.org")
}

func TestReadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	config, err := readConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.ServerAddress)
	assert.Equal(t, "development", config.Environment)
	assert.False(t, config.EventBusDebug)
	assert.Equal(t, notificationsApp.DefaultSyncInterval, config.SyncInterval)
	assert.Equal(t, notificationsApp.DefaultRetention, config.NotificationRetention)
	assert.Equal(t, cache.DefaultSize, config.CacheSize)
	assert.Empty(t, config.AdminEmails)
}

func TestReadConfig_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EVENTBUS_DEBUG", "true")
	t.Setenv("SYNC_INTERVAL", "15m")
	t.Setenv("NOTIFICATION_RETENTION", "168h")
	t.Setenv("CACHE_SIZE", "64")
	t.Setenv("ADMIN_EMAILS", "ana@casira.org,luis@casira.org")

	config, err := readConfig(viper.New())
	require.NoError(t, err)

	assert.True(t, config.EventBusDebug)
	assert.Equal(t, 15*time.Minute, config.SyncInterval)
	assert.Equal(t, 7*24*time.Hour, config.NotificationRetention)
	assert.Equal(t, 64, config.CacheSize)
	assert.Equal(t, []string{"ana@casira.org", "luis@casira.org"}, config.AdminEmails)

	assert.True(t, provideBusConfig(config).Debug)
	assert.Equal(t, 64, provideCacheConfig(config).Size)
	assert.Equal(t, 15*time.Minute, provideSyncConfig(config).Interval)
}

func TestReadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing JWKS endpoint", map[string]string{"JWT_ISSUER": "issuer"}, "JWKS_ENDPOINT is required"},
		{"missing issuer", map[string]string{"JWKS_ENDPOINT": "https://jwks"}, "JWT_ISSUER is required"},
		{"negative interval", map[string]string{"JWKS_ENDPOINT": "https://jwks", "JWT_ISSUER": "issuer", "SYNC_INTERVAL": "-1m"}, "SYNC_INTERVAL must be positive"},
		{"zero cache", map[string]string{"JWKS_ENDPOINT": "https://jwks", "JWT_ISSUER": "issuer", "CACHE_SIZE": "0"}, "CACHE_SIZE must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWKS_ENDPOINT", "")
			t.Setenv("JWT_ISSUER", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := readConfig(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
