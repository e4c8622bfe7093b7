package database

import (
	"context"
	"loyalty_rewards/internal/pkg/config"
	"loyalty_rewards/pkg/kvstore"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		s, err := OpenStore(&config.Config{Store: config.StoreConfig{Driver: "memory"}})
		require.NoError(t, err)
		assert.IsType(t, &kvstore.MemoryStore{}, s)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, err := OpenStore(&config.Config{
			Store: config.StoreConfig{Driver: "redis", KeyPrefix: "f:"},
			Redis: config.RedisConfig{Addr: mr.Addr()},
		})
		require.NoError(t, err)
		defer s.Close()

		_, err = s.Create(context.Background(), "shop:acme", []byte("{}"))
		require.NoError(t, err)
		assert.True(t, mr.Exists("f:shop:acme"))
	})

	t.Run("SQLite with auto migrate", func(t *testing.T) {
		s, err := OpenStore(&config.Config{
			Store: config.StoreConfig{Driver: "sqlite"},
			Database: config.DatabaseConfig{
				SQLitePath:  filepath.Join(t.TempDir(), "test.db"),
				AutoMigrate: true,
			},
		})
		require.NoError(t, err)
		defer s.Close()

		assert.NoError(t, s.Ping(context.Background()))
		_, err = s.Create(context.Background(), "shop:acme", []byte("{}"))
		assert.NoError(t, err)
	})

	t.Run("Redis unreachable", func(t *testing.T) {
		_, err := OpenStore(&config.Config{
			Store: config.StoreConfig{Driver: "redis"},
			Redis: config.RedisConfig{Addr: "127.0.0.1:1"},
		})
		assert.Error(t, err)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := OpenStore(&config.Config{Store: config.StoreConfig{Driver: "etcd"}})
		assert.Error(t, err)
	})
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		User:     "loyalty",
		Password: "p@ss word'\"=x",
		DBName:   "fidelidade",
		SSLMode:  "disable",
		TimeZone: "UTC",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5432", u.Host)
	assert.Equal(t, "/fidelidade", u.Path)
	assert.Equal(t, "loyalty", u.User.Username())
	password, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss word'\"=x", password)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "UTC", u.Query().Get("TimeZone"))
}
