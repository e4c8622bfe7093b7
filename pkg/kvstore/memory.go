package kvstore

import (
	"context"
	"sync"
)

// MemoryStore 内存实现（用于开发/测试）
type MemoryStore struct {
	data map[string]Entry
	mu   sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Entry)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyEntry(e), nil
}

func (m *MemoryStore) Create(ctx context.Context, key string, value []byte) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; ok {
		return nil, ErrExists
	}
	e := Entry{Key: key, Value: append([]byte(nil), value...), Version: 1}
	m.data[key] = e
	return copyEntry(e), nil
}

func (m *MemoryStore) Update(ctx context.Context, key string, value []byte, version int64) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	if cur.Version != version {
		return nil, ErrVersionConflict
	}
	e := Entry{Key: key, Value: append([]byte(nil), value...), Version: version + 1}
	m.data[key] = e
	return copyEntry(e), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close() error {
	return nil
}

func copyEntry(e Entry) *Entry {
	e.Value = append([]byte(nil), e.Value...)
	return &e
}
