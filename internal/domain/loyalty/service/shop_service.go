package service

import (
	"context"
	"errors"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/internal/domain/loyalty/repository"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minSecretLength = 4
	defaultEmoji    = "⭐"
)

// CreateShopInput 创建门店参数，Threshold 为空时使用默认值
type CreateShopInput struct {
	Name      string
	Slug      string
	Secret    string
	Threshold *int
	Emoji     string
}

type ShopService interface {
	CreateShop(ctx context.Context, input CreateShopInput) (*model.Shop, error)
	GetShop(ctx context.Context, slug string) (*model.Shop, error)
}

type shopService struct {
	repo             repository.ShopRepository
	defaultThreshold int
	now              func() time.Time
}

func NewShopService(repo repository.ShopRepository, defaultThreshold int, clock func() time.Time) ShopService {
	if defaultThreshold < 1 {
		defaultThreshold = 10
	}
	if clock == nil {
		clock = time.Now
	}
	return &shopService{repo: repo, defaultThreshold: defaultThreshold, now: clock}
}

func (s *shopService) CreateShop(ctx context.Context, input CreateShopInput) (*model.Shop, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidInput("name is required")
	}
	slug, err := NormalizeSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	if input.Secret == "" {
		return nil, invalidInput("secret is required")
	}
	if utf8.RuneCountInString(input.Secret) < minSecretLength {
		return nil, invalidInput("secret must be at least 4 characters")
	}

	threshold := s.defaultThreshold
	if input.Threshold != nil {
		if *input.Threshold < 1 {
			return nil, invalidInput("meta must be a positive integer")
		}
		threshold = *input.Threshold
	}
	emoji := strings.TrimSpace(input.Emoji)
	if emoji == "" {
		emoji = defaultEmoji
	}

	shop := &model.Shop{
		Slug:      slug,
		Name:      name,
		Threshold: threshold,
		Secret:    input.Secret,
		Emoji:     emoji,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		if errors.Is(err, repository.ErrShopExists) {
			return nil, ErrShopExists
		}
		return nil, internalError(err)
	}
	return shop.Redacted(), nil
}

func (s *shopService) GetShop(ctx context.Context, slug string) (*model.Shop, error) {
	shop, err := loadShop(ctx, s.repo, slug)
	if err != nil {
		return nil, err
	}
	return shop.Redacted(), nil
}

// loadShop 按 slug 读取门店（含 secret，仅供内部使用）
func loadShop(ctx context.Context, repo repository.ShopRepository, slug string) (*model.Shop, error) {
	slug, err := NormalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	shop, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, internalError(err)
	}
	return shop, nil
}
