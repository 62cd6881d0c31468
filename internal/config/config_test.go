package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test. cleanenv treats an
// empty-but-set variable as a value, so they must be truly unset.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t,
		"APP_ENV", "PORT", "DB_QUERY_URL", "DB_NAME", "DB_PROTOCOL",
		"POLL_INTERVAL", "STALE_AFTER", "CACHE_BACKEND", "NATS_URL",
		"HISTORY_REGION", "HISTORY_DAYS",
	)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8123", cfg.Query.BaseURL)
	assert.Equal(t, "airplane_watch", cfg.Query.Database)
	assert.Equal(t, "http", cfg.Query.Protocol)
	assert.Equal(t, 30*time.Second, cfg.Polling.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Polling.StaleAfter)
	assert.Equal(t, "Global", cfg.Polling.HistoryRegion)
	assert.Equal(t, 7, cfg.Polling.HistoryDays)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Empty(t, cfg.NATS.URL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	unsetEnv(t, "DB_PROTOCOL", "STALE_AFTER", "REDIS_PORT")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_QUERY_URL", "http://clickhouse.internal:8123")
	t.Setenv("DB_NAME", "watch_test")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://clickhouse.internal:8123", cfg.Query.BaseURL)
	assert.Equal(t, "watch_test", cfg.Query.Database)
	assert.Equal(t, 5*time.Second, cfg.Polling.Interval)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache.internal:6379", cfg.Cache.RedisAddr())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"relative query url", "DB_QUERY_URL", "localhost:8123"},
		{"unknown protocol", "DB_PROTOCOL", "grpc"},
		{"unknown cache backend", "CACHE_BACKEND", "memcached"},
		{"negative interval", "POLL_INTERVAL", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
