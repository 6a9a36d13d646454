package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_MODE", "")
	t.Setenv("TASK_SERVICE_URL", "http://tasks.local/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthModeJWT, cfg.Auth.Mode)
	assert.Equal(t, "http://tasks.local", cfg.Services.TaskServiceURL)
	assert.Equal(t, 3*time.Second, cfg.Services.TaskTimeout())
	assert.Equal(t, 3*time.Second, cfg.Services.UserTimeout())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "REMOTE")
	t.Setenv("TASK_SERVICE_TIMEOUT_MS", "250")
	t.Setenv("USER_SERVICE_TIMEOUT_MS", "800")
	t.Setenv("SUBMISSION_CACHE_TTL_SECONDS", "0")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthModeRemote, cfg.Auth.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Services.TaskTimeout())
	assert.Equal(t, 800*time.Millisecond, cfg.Services.UserTimeout())
	assert.Equal(t, time.Duration(0), cfg.Redis.CacheTTL())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("AUTH_MODE", "ldap")
	_, err = Load()
	require.Error(t, err)
}
