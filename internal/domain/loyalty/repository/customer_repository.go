package repository

import (
	"context"
	"encoding/json"
	"errors"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/pkg/kvstore"
	"time"
)

// ErrAccountConflict 账户在读取后被其他请求修改，调用方需要重新读取
var ErrAccountConflict = errors.New("customer account modified concurrently")

// CustomerRepository 顾客积分账本
type CustomerRepository interface {
	// Get 读取账户，不存在时返回 Version 为 0 的零值账户
	Get(ctx context.Context, slug, customerID string) (*model.CustomerAccount, error)
	// Save 整条写回。Version 为 0 时仅在不存在时创建，否则按版本号条件更新；
	// 成功后 account.Version 更新为新版本
	Save(ctx context.Context, account *model.CustomerAccount) error
}

type customerRecord struct {
	SchemaVersion    int        `json:"schemaVersion"`
	Points           int        `json:"points"`
	RewardsAvailable int        `json:"rewardsAvailable"`
	LastConsumedCode string     `json:"lastConsumedCode,omitempty"`
	LastRedeemedAt   *time.Time `json:"lastRedeemedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (r *customerRecord) schema() int { return r.SchemaVersion }

type customerRepository struct {
	store kvstore.Store
}

// NewCustomerRepository 创建账本仓库
func NewCustomerRepository(store kvstore.Store) CustomerRepository {
	return &customerRepository{store: store}
}

func (r *customerRepository) Get(ctx context.Context, slug, customerID string) (*model.CustomerAccount, error) {
	account := &model.CustomerAccount{ShopSlug: slug, CustomerID: customerID}

	e, err := r.store.Get(ctx, customerKey(slug, customerID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return account, nil
		}
		return nil, err
	}

	var rec customerRecord
	if err := decode(e.Value, &rec); err != nil {
		return nil, err
	}
	account.Points = rec.Points
	account.RewardsAvailable = rec.RewardsAvailable
	account.LastConsumedCode = rec.LastConsumedCode
	account.LastRedeemedAt = rec.LastRedeemedAt
	account.CreatedAt = rec.CreatedAt
	account.UpdatedAt = rec.UpdatedAt
	account.Version = e.Version
	return account, nil
}

func (r *customerRepository) Save(ctx context.Context, account *model.CustomerAccount) error {
	data, err := json.Marshal(customerRecord{
		SchemaVersion:    model.SchemaVersion,
		Points:           account.Points,
		RewardsAvailable: account.RewardsAvailable,
		LastConsumedCode: account.LastConsumedCode,
		LastRedeemedAt:   account.LastRedeemedAt,
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
	})
	if err != nil {
		return err
	}

	key := customerKey(account.ShopSlug, account.CustomerID)
	e, err := kvstore.Put(ctx, r.store, key, data, account.Version)
	if err != nil {
		if errors.Is(err, kvstore.ErrVersionConflict) || errors.Is(err, kvstore.ErrNotFound) {
			return ErrAccountConflict
		}
		return err
	}
	account.Version = e.Version
	return nil
}
