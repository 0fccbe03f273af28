package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "./migrations", cfg.Storage.MigrationsDir)
	assert.Equal(t, time.Hour, cfg.S3.ExportURLTTL)
	assert.True(t, cfg.S3.UseSSL)
	assert.False(t, cfg.Scheduling.EnforceDailyLimit)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("SCHEDULING_ENFORCE_DAILY_LIMIT", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("S3_USE_SSL", "false")
	t.Setenv("EXPORT_URL_TTL", "15m")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Scheduling.EnforceDailyLimit)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, 15*time.Minute, cfg.S3.ExportURLTTL)
}

func TestNewConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNECTIONS", "many")
	assert.Equal(t, 10, getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10))
}
