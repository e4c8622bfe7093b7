package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/pkg/kvstore"
)

// ActivityRepository 顾客积分动态，仅保留最近 limit 条
type ActivityRepository interface {
	Append(ctx context.Context, slug, customerID string, activity model.Activity) error
	// List 按时间倒序返回
	List(ctx context.Context, slug, customerID string) ([]model.Activity, error)
}

type activityRecord struct {
	SchemaVersion int              `json:"schemaVersion"`
	Items         []model.Activity `json:"items"`
}

func (r *activityRecord) schema() int { return r.SchemaVersion }

type activityRepository struct {
	store      kvstore.Store
	limit      int
	maxRetries int
}

// NewActivityRepository 创建动态仓库
func NewActivityRepository(store kvstore.Store, limit, maxRetries int) ActivityRepository {
	if limit <= 0 {
		limit = 50
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &activityRepository{store: store, limit: limit, maxRetries: maxRetries}
}

func (r *activityRepository) load(ctx context.Context, key string) (*activityRecord, int64, error) {
	e, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return &activityRecord{SchemaVersion: model.SchemaVersion}, 0, nil
		}
		return nil, 0, err
	}
	var rec activityRecord
	if err := decode(e.Value, &rec); err != nil {
		return nil, 0, err
	}
	return &rec, e.Version, nil
}

// Append 读取-追加-条件写回，冲突时重试
func (r *activityRepository) Append(ctx context.Context, slug, customerID string, activity model.Activity) error {
	key := activityKey(slug, customerID)

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		rec, version, err := r.load(ctx, key)
		if err != nil {
			return err
		}

		items := append([]model.Activity{activity}, rec.Items...)
		if len(items) > r.limit {
			items = items[:r.limit]
		}
		rec.Items = items
		rec.SchemaVersion = model.SchemaVersion

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = kvstore.Put(ctx, r.store, key, data, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, kvstore.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("append activity %s: %w", key, ErrAccountConflict)
}

func (r *activityRepository) List(ctx context.Context, slug, customerID string) ([]model.Activity, error) {
	rec, _, err := r.load(ctx, activityKey(slug, customerID))
	if err != nil {
		return nil, err
	}
	if rec.Items == nil {
		return []model.Activity{}, nil
	}
	return rec.Items, nil
}
