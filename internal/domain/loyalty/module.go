package loyalty

import (
	"fmt"
	"loyalty_rewards/internal/domain/loyalty/handler"
	"loyalty_rewards/internal/domain/loyalty/repository"
	"loyalty_rewards/internal/domain/loyalty/service"
	"loyalty_rewards/internal/pkg/middleware"
	"loyalty_rewards/internal/pkg/otp"
	"loyalty_rewards/internal/pkg/qrcode"
	"loyalty_rewards/internal/pkg/registry"
	"loyalty_rewards/internal/pkg/worker"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoyaltyModule 会员积分模块
type LoyaltyModule struct{}

func init() {
	registry.Register(&LoyaltyModule{})
}

func (m *LoyaltyModule) Name() string {
	return "loyalty"
}

func (m *LoyaltyModule) Priority() int {
	return 10
}

func (m *LoyaltyModule) Init(ctx *registry.ModuleContext) error {
	cfg := ctx.Config
	log := ctx.Logger
	if log == nil {
		log = zap.NewNop()
	}

	algorithm, err := otp.ParseAlgorithm(cfg.Loyalty.CodeAlgorithm)
	if err != nil {
		return fmt.Errorf("loyalty module: %w", err)
	}

	// 1. 依赖注入
	shopRepo := repository.NewShopRepository(ctx.Store)
	customerRepo := repository.NewCustomerRepository(ctx.Store)
	activityRepo := repository.NewActivityRepository(ctx.Store, cfg.Loyalty.ActivityLimit, cfg.Store.MaxRetries)

	// 积分动态异步写入
	pool := worker.NewWorkerPool(activityRepo, cfg.Loyalty.WorkerNum, cfg.Loyalty.QueueSize, log.Named("activity"))
	if ctx.Metrics != nil {
		pool.OnDrop = ctx.Metrics.RecordActivityDropped
	}
	pool.Start()
	ctx.OnShutdown(pool.Stop)

	opts := service.RewardsOptions{
		Generator:     otp.NewGenerator(algorithm, nil),
		MaxRetries:    cfg.Store.MaxRetries,
		StaffTokenKey: cfg.JWT.Secret,
		StaffTokenTTL: time.Duration(cfg.JWT.Expire) * time.Hour,
		Activity:      pool,
		Logger:        log.Named("rewards"),
	}
	if ctx.Metrics != nil {
		opts.Metrics = ctx.Metrics
	}

	shopService := service.NewShopService(shopRepo, cfg.Loyalty.DefaultThreshold, nil)
	rewardsService := service.NewRewardsService(shopRepo, customerRepo, activityRepo, opts)
	h := handler.NewLoyaltyHandler(shopService, rewardsService, qrcode.DefaultGenerator{BaseURL: cfg.Loyalty.QRBaseURL}, log)

	// 2. 路由注册
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	setupRoutes(ctx.Router, h, middleware.StaffAuthMiddleware(cfg.JWT.Secret), limiter.Middleware())

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.LoyaltyHandler, staffAuth, rateLimit gin.HandlerFunc) {
	g := r.Group("/shops")
	{
		g.POST("", h.CreateShop)
		g.GET("/:slug", h.GetShop)
		g.GET("/:slug/customers/:customerId", h.GetCustomer)
		g.GET("/:slug/customers/:customerId/activity", h.ListActivity)
		g.POST("/:slug/staff/token", rateLimit, h.IssueStaffToken)

		// 积分接口限流，防止枚举 6 位购买码
		g.POST("/:slug/earn", rateLimit, h.EarnPoint)

		// 员工接口：secret 或员工令牌
		staff := g.Group("")
		staff.Use(staffAuth)
		{
			staff.POST("/:slug/code", rateLimit, h.GenerateCode)
			staff.POST("/:slug/code/qr", rateLimit, h.GenerateQRCode)
			staff.POST("/:slug/redeem", rateLimit, h.RedeemReward)
		}
	}
}
