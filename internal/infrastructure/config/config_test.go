package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"DASH_APP_NAME":          os.Getenv("DASH_APP_NAME"),
		"DASH_APP_ENV":           os.Getenv("DASH_APP_ENV"),
		"DASH_APP_PORT":          os.Getenv("DASH_APP_PORT"),
		"DASH_DATABASE_HOST":     os.Getenv("DASH_DATABASE_HOST"),
		"DASH_DATABASE_PASSWORD": os.Getenv("DASH_DATABASE_PASSWORD"),
		"DASH_DATABASE_SSLMODE":  os.Getenv("DASH_DATABASE_SSLMODE"),
		"DASH_CACHE_BACKEND":     os.Getenv("DASH_CACHE_BACKEND"),
		"DASH_AUTH_ENABLED":      os.Getenv("DASH_AUTH_ENABLED"),
		"DASH_AUTH_JWT_SECRET":   os.Getenv("DASH_AUTH_JWT_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "dashboard-api", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "dashboard", cfg.Database.DBName)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("DASH_APP_PORT", "9090")
		os.Setenv("DASH_DATABASE_HOST", "db.internal")
		os.Setenv("DASH_CACHE_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "redis", cfg.Cache.Backend)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("DASH_CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.backend")
	})

	t.Run("production requires a database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("DASH_APP_ENV", "production")
		os.Setenv("DASH_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production requires a long jwt secret when auth enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("DASH_APP_ENV", "production")
		os.Setenv("DASH_DATABASE_PASSWORD", "pw")
		os.Setenv("DASH_DATABASE_SSLMODE", "require")
		os.Setenv("DASH_AUTH_ENABLED", "true")
		os.Setenv("DASH_AUTH_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_secret")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "dashboard",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}
