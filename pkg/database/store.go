package database

import (
	"fmt"
	"loyalty_rewards/internal/pkg/config"
	"loyalty_rewards/pkg/kvstore"
)

// OpenStore 根据 store.driver 创建账本存储
func OpenStore(cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return kvstore.NewMemoryStore(), nil
	case "redis":
		rdb, err := InitRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kvstore.NewRedisStore(rdb, cfg.Store.KeyPrefix), nil
	case "postgres", "sqlite":
		db, err := InitDatabase(cfg.Store.Driver, cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		s := kvstore.NewGormStore(db, cfg.Store.KeyPrefix)
		if cfg.Database.AutoMigrate {
			if err := s.AutoMigrate(); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
