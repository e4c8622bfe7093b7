package database

import (
	"context"
	"fmt"
	"loyalty_rewards/internal/pkg/config"
	"loyalty_rewards/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis 初始化 Redis 连接
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 50
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 5,
		MaxRetries:   -1, // 写命令不自动重试
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Addr, err)
	}

	logger.L().Info("redis connected", zap.String("addr", cfg.Addr), zap.Int("pool_size", poolSize))
	return rdb, nil
}
