package main

import (
	"context"
	"errors"
	"log"
	_ "loyalty_rewards/internal/domain/common"
	_ "loyalty_rewards/internal/domain/loyalty"
	"loyalty_rewards/internal/pkg/config"
	"loyalty_rewards/internal/pkg/middleware"
	"loyalty_rewards/internal/pkg/registry"
	"loyalty_rewards/pkg/database"
	"loyalty_rewards/pkg/kvstore"
	"loyalty_rewards/pkg/logger"
	"loyalty_rewards/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Fidelidade Loyalty API
// @version 1.0
// @description 门店积分与奖励兑换服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	config.LoadConfig()
	cfg := &config.GlobalConfig

	// 2. 初始化日志
	zlog, err := logger.Init(cfg.Log, cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 3. 初始化存储
	collector := metrics.GetGlobalCollector()
	store, err := database.OpenStore(cfg)
	if err != nil {
		zlog.Fatal("open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	store = kvstore.WithMetrics(store, collector)
	zlog.Info("store ready", zap.String("driver", cfg.Store.Driver))

	// 4. 路由与中间件
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(collector),
		cors.New(corsConfig(cfg.Cors)),
	)

	// 5. 初始化模块
	moduleCtx := &registry.ModuleContext{
		Store:   store,
		Router:  r,
		Config:  cfg,
		Logger:  zlog,
		Metrics: collector,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		zlog.Fatal("init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	// 6. 优雅退出：先停 HTTP，再排空动态队列，最后关闭存储
	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.Server))
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	moduleCtx.Shutdown()
	if err := store.Close(); err != nil {
		zlog.Error("close store", zap.Error(err))
	}
}

func corsConfig(c config.CorsConfig) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", "X-Trace-ID")
	cc.ExposeHeaders = []string{"X-Trace-ID", "X-Code-Valid-Until"}
	if len(c.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = c.AllowedOrigins
	}
	return cc
}

func shutdownTimeout(c config.ServerConfig) time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return c.ShutdownTimeout
}
