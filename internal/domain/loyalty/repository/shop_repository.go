package repository

import (
	"context"
	"encoding/json"
	"errors"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/pkg/kvstore"
	"time"
)

var (
	ErrShopExists   = errors.New("shop already exists")
	ErrShopNotFound = errors.New("shop not found")
)

// ShopRepository 门店注册表
type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	GetBySlug(ctx context.Context, slug string) (*model.Shop, error)
}

// shopRecord 持久化结构，包含 secret
type shopRecord struct {
	SchemaVersion int       `json:"schemaVersion"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Threshold     int       `json:"meta"`
	Secret        string    `json:"secret"`
	Emoji         string    `json:"emoji"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (r *shopRecord) schema() int { return r.SchemaVersion }

type shopRepository struct {
	store kvstore.Store
}

// NewShopRepository 创建门店仓库
func NewShopRepository(store kvstore.Store) ShopRepository {
	return &shopRepository{store: store}
}

// Create 仅当 slug 不存在时写入
func (r *shopRepository) Create(ctx context.Context, shop *model.Shop) error {
	data, err := json.Marshal(shopRecord{
		SchemaVersion: model.SchemaVersion,
		Slug:          shop.Slug,
		Name:          shop.Name,
		Threshold:     shop.Threshold,
		Secret:        shop.Secret,
		Emoji:         shop.Emoji,
		CreatedAt:     shop.CreatedAt,
	})
	if err != nil {
		return err
	}

	if _, err := r.store.Create(ctx, shopKey(shop.Slug), data); err != nil {
		if errors.Is(err, kvstore.ErrExists) {
			return ErrShopExists
		}
		return err
	}
	return nil
}

func (r *shopRepository) GetBySlug(ctx context.Context, slug string) (*model.Shop, error) {
	e, err := r.store.Get(ctx, shopKey(slug))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	var rec shopRecord
	if err := decode(e.Value, &rec); err != nil {
		return nil, err
	}
	return &model.Shop{
		Slug:      rec.Slug,
		Name:      rec.Name,
		Threshold: rec.Threshold,
		Secret:    rec.Secret,
		Emoji:     rec.Emoji,
		CreatedAt: rec.CreatedAt,
	}, nil
}
