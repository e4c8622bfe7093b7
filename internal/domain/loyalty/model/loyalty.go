package model

import "time"

// SchemaVersion 持久化记录的结构版本
const SchemaVersion = 1

// Shop 门店 (租户)，slug 全局唯一且不可变
type Shop struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Threshold int       `json:"meta"` // 兑换一次奖励所需积分
	Secret    string    `json:"-"`    // 员工凭证兼购买码种子，不对外返回
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// Redacted 返回去掉 secret 的副本
func (s Shop) Redacted() *Shop {
	s.Secret = ""
	return &s
}

// CustomerAccount 顾客在某门店的积分账户
type CustomerAccount struct {
	ShopSlug         string     `json:"slug"`
	CustomerID       string     `json:"customerId"`
	Points           int        `json:"points"`
	RewardsAvailable int        `json:"rewardsAvailable"`
	LastConsumedCode string     `json:"-"` // 防重放，仅记录最近一次
	LastRedeemedAt   *time.Time `json:"lastRedeemedAt,omitempty"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`

	// Version 存储版本号，0 表示尚未持久化
	Version int64 `json:"-"`
}

// Exists 账户是否已持久化
func (a *CustomerAccount) Exists() bool {
	return a.Version > 0
}

// ActivityType 积分动态类型
type ActivityType string

const (
	ActivityEarn   ActivityType = "earn"
	ActivityRedeem ActivityType = "redeem"
)

// Activity 积分动态
type Activity struct {
	ID               string       `json:"id"`
	Type             ActivityType `json:"type"`
	Points           int          `json:"points"`
	RewardsAvailable int          `json:"rewardsAvailable"`
	EarnedReward     bool         `json:"earnedReward,omitempty"`
	At               time.Time    `json:"at"`
}

// EarnResult 积分结果
type EarnResult struct {
	Points           int  `json:"points"`
	RewardsAvailable int  `json:"rewardsAvailable"`
	EarnedReward     bool `json:"earnedReward"`
}

// RedeemResult 兑换结果
type RedeemResult struct {
	Points           int       `json:"points"`
	RewardsAvailable int       `json:"rewardsAvailable"`
	RedeemedAt       time.Time `json:"redeemedAt"`
}

// StaffToken 员工终端令牌
type StaffToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
