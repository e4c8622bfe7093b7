package kvstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// 每个键存为一个 hash：v = 版本号，d = 数据

// Lua 脚本：键不存在时写入版本 1
var createScript = redis.NewScript(`
	if redis.call("EXISTS", KEYS[1]) == 1 then
		return 0 -- 已存在
	end
	redis.call("HSET", KEYS[1], "v", 1, "d", ARGV[1])
	return 1
`)

// Lua 脚本：检查版本号 + 覆盖写入 + 版本号加 1
var updateScript = redis.NewScript(`
	local v = redis.call("HGET", KEYS[1], "v")
	if not v then
		return -1 -- 不存在
	end
	if tonumber(v) ~= tonumber(ARGV[2]) then
		return 0 -- 版本冲突
	end
	local next = tonumber(v) + 1
	redis.call("HSET", KEYS[1], "v", next, "d", ARGV[1])
	return next
`)

// RedisStore Redis 实现
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// getKey 获取完整的键
func (s *RedisStore) getKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	vals, err := s.client.HMGet(ctx, s.getKey(key), "v", "d").Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget %s: %w", key, err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, ErrNotFound
	}

	version, err := strconv.ParseInt(vals[0].(string), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis bad version for %s: %w", key, err)
	}
	return &Entry{Key: key, Value: []byte(vals[1].(string)), Version: version}, nil
}

func (s *RedisStore) Create(ctx context.Context, key string, value []byte) (*Entry, error) {
	result, err := createScript.Run(ctx, s.client, []string{s.getKey(key)}, value).Int()
	if err != nil {
		return nil, fmt.Errorf("redis create %s: %w", key, err)
	}
	if result == 0 {
		return nil, ErrExists
	}
	return &Entry{Key: key, Value: value, Version: 1}, nil
}

func (s *RedisStore) Update(ctx context.Context, key string, value []byte, version int64) (*Entry, error) {
	result, err := updateScript.Run(ctx, s.client, []string{s.getKey(key)}, value, version).Int64()
	if err != nil {
		return nil, fmt.Errorf("redis update %s: %w", key, err)
	}
	switch {
	case result == -1:
		return nil, ErrNotFound
	case result == 0:
		return nil, ErrVersionConflict
	}
	return &Entry{Key: key, Value: value, Version: result}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
