package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/internal/domain/loyalty/repository"
	"loyalty_rewards/internal/pkg/otp"
	"loyalty_rewards/internal/pkg/worker"
	"loyalty_rewards/pkg/utils"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opEarn   = "earn"
	opRedeem = "redeem"
)

type RewardsService interface {
	GetCustomer(ctx context.Context, slug, customerID string) (*model.CustomerAccount, error)
	GenerateCode(ctx context.Context, slug, secret string) (*otp.Code, error)
	// GenerateCodeForStaff 员工令牌已在中间件校验通过
	GenerateCodeForStaff(ctx context.Context, slug string) (*otp.Code, error)
	EarnPoint(ctx context.Context, slug, customerID, code string) (*model.EarnResult, error)
	RedeemReward(ctx context.Context, slug, customerID, secret string) (*model.RedeemResult, error)
	RedeemRewardForStaff(ctx context.Context, slug, customerID string) (*model.RedeemResult, error)
	IssueStaffToken(ctx context.Context, slug, secret string) (*model.StaffToken, error)
	ListActivity(ctx context.Context, slug, customerID string, p *utils.Pagination) (*utils.PageResult, error)
}

// LedgerRecorder 账本指标
type LedgerRecorder interface {
	RecordLedgerOperation(operation, outcome string)
	RecordLedgerConflict(operation string)
	RecordRewardEarned()
}

// ActivityQueue 积分动态异步写入
type ActivityQueue interface {
	AddTask(task worker.ActivityTask)
}

// RewardsOptions 可选依赖，零值可用
type RewardsOptions struct {
	Generator     *otp.Generator
	MaxRetries    int
	StaffTokenKey string
	StaffTokenTTL time.Duration
	Metrics       LedgerRecorder
	Activity      ActivityQueue
	Logger        *zap.Logger
}

type rewardsService struct {
	shops      repository.ShopRepository
	customers  repository.CustomerRepository
	activities repository.ActivityRepository

	generator  *otp.Generator
	maxRetries int
	tokenKey   string
	tokenTTL   time.Duration
	metrics    LedgerRecorder
	queue      ActivityQueue
	log        *zap.Logger
}

func NewRewardsService(
	shops repository.ShopRepository,
	customers repository.CustomerRepository,
	activities repository.ActivityRepository,
	opts RewardsOptions,
) RewardsService {
	s := &rewardsService{
		shops:      shops,
		customers:  customers,
		activities: activities,
		generator:  opts.Generator,
		maxRetries: opts.MaxRetries,
		tokenKey:   opts.StaffTokenKey,
		tokenTTL:   opts.StaffTokenTTL,
		metrics:    opts.Metrics,
		queue:      opts.Activity,
		log:        opts.Logger,
	}
	if s.generator == nil {
		s.generator = otp.NewGenerator(otp.RollingHash{}, nil)
	}
	if s.maxRetries <= 0 {
		s.maxRetries = 5
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = 12 * time.Hour
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *rewardsService) GetCustomer(ctx context.Context, slug, customerID string) (*model.CustomerAccount, error) {
	customerID, err := normalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	shop, err := loadShop(ctx, s.shops, slug)
	if err != nil {
		return nil, err
	}

	account, err := s.customers.Get(ctx, shop.Slug, customerID)
	if err != nil {
		return nil, internalError(err)
	}
	return account, nil
}

func (s *rewardsService) GenerateCode(ctx context.Context, slug, secret string) (*otp.Code, error) {
	shop, err := s.authorize(ctx, slug, secret)
	if err != nil {
		return nil, err
	}
	code := s.generator.Current(shop.Slug, shop.Secret)
	return &code, nil
}

func (s *rewardsService) GenerateCodeForStaff(ctx context.Context, slug string) (*otp.Code, error) {
	shop, err := loadShop(ctx, s.shops, slug)
	if err != nil {
		return nil, err
	}
	code := s.generator.Current(shop.Slug, shop.Secret)
	return &code, nil
}

// EarnPoint 校验购买码并为顾客积 1 分，达到门槛时清零并发放奖励
func (s *rewardsService) EarnPoint(ctx context.Context, slug, customerID, code string) (*model.EarnResult, error) {
	result, err := s.earn(ctx, slug, customerID, code)
	s.metrics.RecordLedgerOperation(opEarn, outcome(err))
	return result, err
}

func (s *rewardsService) earn(ctx context.Context, slug, customerID, code string) (*model.EarnResult, error) {
	customerID, err := normalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalidInput("code is required")
	}
	shop, err := loadShop(ctx, s.shops, slug)
	if err != nil {
		return nil, err
	}

	if !s.generator.Verify(code, shop.Slug, shop.Secret) {
		return nil, ErrInvalidCode
	}

	var earnedReward bool
	account, err := s.update(ctx, opEarn, shop.Slug, customerID, func(a *model.CustomerAccount) error {
		earnedReward = false
		// 单槽防重放：仅拦截同一顾客刚用过的码
		if a.LastConsumedCode == code {
			return ErrCodeAlreadyUsed
		}
		a.Points++
		a.LastConsumedCode = code
		if a.Points >= shop.Threshold {
			a.Points = 0
			a.RewardsAvailable++
			earnedReward = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if earnedReward {
		s.metrics.RecordRewardEarned()
	}
	s.publish(shop.Slug, customerID, model.Activity{
		Type:             model.ActivityEarn,
		Points:           account.Points,
		RewardsAvailable: account.RewardsAvailable,
		EarnedReward:     earnedReward,
		At:               account.UpdatedAt,
	})

	return &model.EarnResult{
		Points:           account.Points,
		RewardsAvailable: account.RewardsAvailable,
		EarnedReward:     earnedReward,
	}, nil
}

// RedeemReward 凭门店 secret 兑换一次奖励
func (s *rewardsService) RedeemReward(ctx context.Context, slug, customerID, secret string) (*model.RedeemResult, error) {
	result, err := func() (*model.RedeemResult, error) {
		customerID, err := normalizeCustomerID(customerID)
		if err != nil {
			return nil, err
		}
		shop, err := s.authorize(ctx, slug, secret)
		if err != nil {
			return nil, err
		}
		return s.redeem(ctx, shop, customerID)
	}()
	s.metrics.RecordLedgerOperation(opRedeem, outcome(err))
	return result, err
}

func (s *rewardsService) RedeemRewardForStaff(ctx context.Context, slug, customerID string) (*model.RedeemResult, error) {
	result, err := func() (*model.RedeemResult, error) {
		customerID, err := normalizeCustomerID(customerID)
		if err != nil {
			return nil, err
		}
		shop, err := loadShop(ctx, s.shops, slug)
		if err != nil {
			return nil, err
		}
		return s.redeem(ctx, shop, customerID)
	}()
	s.metrics.RecordLedgerOperation(opRedeem, outcome(err))
	return result, err
}

func (s *rewardsService) redeem(ctx context.Context, shop *model.Shop, customerID string) (*model.RedeemResult, error) {
	account, err := s.update(ctx, opRedeem, shop.Slug, customerID, func(a *model.CustomerAccount) error {
		if !a.Exists() {
			return ErrCustomerNotFound
		}
		if a.RewardsAvailable <= 0 {
			return ErrNoRewardAvailable
		}
		a.RewardsAvailable--
		redeemedAt := a.UpdatedAt
		a.LastRedeemedAt = &redeemedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(shop.Slug, customerID, model.Activity{
		Type:             model.ActivityRedeem,
		Points:           account.Points,
		RewardsAvailable: account.RewardsAvailable,
		At:               *account.LastRedeemedAt,
	})

	return &model.RedeemResult{
		Points:           account.Points,
		RewardsAvailable: account.RewardsAvailable,
		RedeemedAt:       *account.LastRedeemedAt,
	}, nil
}

func (s *rewardsService) IssueStaffToken(ctx context.Context, slug, secret string) (*model.StaffToken, error) {
	shop, err := s.authorize(ctx, slug, secret)
	if err != nil {
		return nil, err
	}
	if s.tokenKey == "" {
		return nil, internalError(errors.New("staff token signing key not configured"))
	}

	token, expiresAt, err := utils.GenerateStaffToken(s.tokenKey, shop.Slug, s.tokenTTL)
	if err != nil {
		return nil, internalError(err)
	}
	return &model.StaffToken{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *rewardsService) ListActivity(ctx context.Context, slug, customerID string, p *utils.Pagination) (*utils.PageResult, error) {
	customerID, err := normalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	shop, err := loadShop(ctx, s.shops, slug)
	if err != nil {
		return nil, err
	}

	items, err := s.activities.List(ctx, shop.Slug, customerID)
	if err != nil {
		return nil, internalError(err)
	}
	if p == nil {
		p = &utils.Pagination{}
	}
	page := utils.Paginate(items, p)
	return &page, nil
}

// authorize 读取门店并校验 secret
func (s *rewardsService) authorize(ctx context.Context, slug, secret string) (*model.Shop, error) {
	if secret == "" {
		return nil, invalidInput("secret is required")
	}
	shop, err := loadShop(ctx, s.shops, slug)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(shop.Secret)) != 1 {
		return nil, ErrUnauthorized
	}
	return shop, nil
}

// update 读取-修改-条件写回。版本冲突时整体重试，业务校验基于最新状态重新执行
func (s *rewardsService) update(
	ctx context.Context,
	op, slug, customerID string,
	mutate func(a *model.CustomerAccount) error,
) (*model.CustomerAccount, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		account, err := s.customers.Get(ctx, slug, customerID)
		if err != nil {
			return nil, internalError(err)
		}

		now := s.generator.Now().UTC()
		account.UpdatedAt = now
		if !account.Exists() {
			account.CreatedAt = now
		}
		if err := mutate(account); err != nil {
			return nil, err
		}

		err = s.customers.Save(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, repository.ErrAccountConflict) {
			return nil, internalError(err)
		}

		s.metrics.RecordLedgerConflict(op)
		s.log.Debug("customer account conflict, retrying",
			zap.String("op", op),
			zap.String("shop", slug),
			zap.String("customer", customerID),
			zap.Int("attempt", attempt),
		)
	}

	s.log.Warn("customer account retries exhausted",
		zap.String("op", op),
		zap.String("shop", slug),
		zap.String("customer", customerID),
		zap.Int("retries", s.maxRetries),
	)
	return nil, ErrLedgerBusy
}

func (s *rewardsService) publish(slug, customerID string, activity model.Activity) {
	if s.queue == nil {
		return
	}
	activity.ID = uuid.New().String()
	s.queue.AddTask(worker.ActivityTask{
		ShopSlug:   slug,
		CustomerID: customerID,
		Activity:   activity,
	})
}

// outcome 指标标签
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCodeAlreadyUsed):
		return "code_used"
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrShopNotFound), errors.Is(err, ErrCustomerNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNoRewardAvailable):
		return "no_reward"
	case errors.Is(err, ErrLedgerBusy):
		return "busy"
	default:
		return "error"
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordLedgerOperation(string, string) {}
func (nopRecorder) RecordLedgerConflict(string)          {}
func (nopRecorder) RecordRewardEarned()                  {}
