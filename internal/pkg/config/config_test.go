package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("Defaults without config file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("STORE_DRIVER", "")

		cfg, err := Load("dev", t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "memory", cfg.Store.Driver)
		assert.Equal(t, "fidelidade:", cfg.Store.KeyPrefix)
		assert.Equal(t, 5, cfg.Store.MaxRetries)
		assert.Equal(t, 10, cfg.Loyalty.DefaultThreshold)
		assert.Equal(t, "legacy", cfg.Loyalty.CodeAlgorithm)
		assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	})

	t.Run("Environment specific file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("STORE_DRIVER", "")
		dir := writeConfig(t, "config.test.yaml", `
store:
  driver: sqlite
  max_retries: 3
jwt:
  secret: from-file
loyalty:
  default_threshold: 7
  code_algorithm: hmac
`)

		cfg, err := Load("test", dir)

		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Store.Driver)
		assert.Equal(t, 3, cfg.Store.MaxRetries)
		assert.Equal(t, "from-file", cfg.JWT.Secret)
		assert.Equal(t, 7, cfg.Loyalty.DefaultThreshold)
		assert.Equal(t, "hmac", cfg.Loyalty.CodeAlgorithm)
	})

	t.Run("Env overrides file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "from-env")
		t.Setenv("STORE_DRIVER", "redis")
		t.Setenv("REDIS_ADDR", "redis.internal:6380")
		dir := writeConfig(t, "config.yaml", "store:\n  driver: memory\njwt:\n  secret: from-file\n")

		cfg, err := Load("dev", dir)

		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Store.Driver)
		assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
		assert.Equal(t, "from-env", cfg.JWT.Secret)
	})

	t.Run("Invalid driver rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("STORE_DRIVER", "cassandra")

		_, err := Load("dev", t.TempDir())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown store driver")
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Store:   StoreConfig{Driver: "memory", MaxRetries: 5},
			JWT:     JWTConfig{Secret: "secret"},
			Loyalty: LoyaltyConfig{DefaultThreshold: 10, CodeAlgorithm: "legacy"},
			App:     AppConfig{Env: "dev"},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Postgres requires database settings", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Driver = "postgres"
		assert.EqualError(t, cfg.Validate(), "database configuration is incomplete")
	})

	t.Run("Short secret in prod", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "prod"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Zero retries", func(t *testing.T) {
		cfg := valid()
		cfg.Store.MaxRetries = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown algorithm", func(t *testing.T) {
		cfg := valid()
		cfg.Loyalty.CodeAlgorithm = "md5"
		assert.Error(t, cfg.Validate())
	})
}
