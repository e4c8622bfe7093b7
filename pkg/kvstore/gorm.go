package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry 键值表
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"not null"`
	Version   int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}

// GormStore 关系型数据库实现 (Postgres / SQLite)
type GormStore struct {
	db     *gorm.DB
	prefix string
}

// NewGormStore 创建数据库存储
func NewGormStore(db *gorm.DB, prefix string) *GormStore {
	return &GormStore{db: db, prefix: prefix}
}

// AutoMigrate 建表（生产环境 Postgres 使用 cmd/migrate）
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&KVEntry{})
}

func (s *GormStore) getKey(key string) string {
	return s.prefix + key
}

func (s *GormStore) Get(ctx context.Context, key string) (*Entry, error) {
	var row KVEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", s.getKey(key)).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db get %s: %w", key, err)
	}
	return &Entry{Key: key, Value: row.Value, Version: row.Version}, nil
}

func (s *GormStore) Create(ctx context.Context, key string, value []byte) (*Entry, error) {
	row := KVEntry{Key: s.getKey(key), Value: value, Version: 1}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("db create %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrExists
	}
	return &Entry{Key: key, Value: value, Version: 1}, nil
}

// Update 乐观锁更新：WHERE version = ?
func (s *GormStore) Update(ctx context.Context, key string, value []byte, version int64) (*Entry, error) {
	result := s.db.WithContext(ctx).Model(&KVEntry{}).
		Where("entry_key = ? AND version = ?", s.getKey(key), version).
		Updates(map[string]interface{}{
			"value":   value,
			"version": version + 1,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("db update %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		// 区分记录不存在与版本冲突
		if _, err := s.Get(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrVersionConflict
	}
	return &Entry{Key: key, Value: value, Version: version + 1}, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
