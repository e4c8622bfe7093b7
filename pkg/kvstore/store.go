package kvstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("kvstore: key not found")
	ErrExists          = errors.New("kvstore: key already exists")
	ErrVersionConflict = errors.New("kvstore: version conflict")
)

// Entry 带版本号的值。版本从 1 开始，每次成功更新加 1
type Entry struct {
	Key     string
	Value   []byte
	Version int64
}

// Store 带乐观并发控制的键值存储
type Store interface {
	// Get 读取键，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (*Entry, error)
	// Create 仅当键不存在时写入 (版本 1)，否则返回 ErrExists
	Create(ctx context.Context, key string, value []byte) (*Entry, error)
	// Update 仅当当前版本等于 version 时覆盖写入，否则返回 ErrVersionConflict
	Update(ctx context.Context, key string, value []byte, version int64) (*Entry, error)
	// Ping 检查存储是否可用
	Ping(ctx context.Context) error
	Close() error
}

// Put 根据版本号选择 Create 或 Update。version 为 0 表示记录尚不存在，
// 此时并发创建导致的 ErrExists 也视为版本冲突
func Put(ctx context.Context, s Store, key string, value []byte, version int64) (*Entry, error) {
	if version == 0 {
		e, err := s.Create(ctx, key, value)
		if errors.Is(err, ErrExists) {
			return nil, ErrVersionConflict
		}
		return e, err
	}
	return s.Update(ctx, key, value, version)
}
