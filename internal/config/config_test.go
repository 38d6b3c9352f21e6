package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-that-is-long-enough-123")
	t.Setenv("APP_ENV", "development")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rvutrack-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.LoadTimeout)
	assert.Equal(t, 100, cfg.Cache.SearchLimit)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RVU_CACHE_TTL", "1h")
	t.Setenv("RVU_CACHE_SEARCH_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 25, cfg.Cache.SearchLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoadRejectsNonPositiveCacheTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RVU_CACHE_TTL", "-5m")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RVU_CACHE_TTL must be positive")
}

func TestLoadProductionGuards(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_SSLMODE", "disable")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be at least 32 characters in production")
	assert.Contains(t, err.Error(), "DB_SSLMODE=disable is not allowed in production")
	assert.Contains(t, err.Error(), "DB_PASSWORD is required in non-development environments")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5432, Name: "rvutrack",
		User: "svc", Password: "pw", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal user=svc password=pw dbname=rvutrack port=5432 sslmode=require Timezone=UTC",
		d.DSN(),
	)
}

func TestGetEnvSliceSplitsAndTrims(t *testing.T) {
	t.Setenv("CORS_TEST_SLICE", "https://a.example, https://b.example ,")

	got := getEnvSlice("CORS_TEST_SLICE", nil)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, got)
}
