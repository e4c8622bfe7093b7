package common

import (
	"context"
	_ "loyalty_rewards/docs"
	"loyalty_rewards/internal/pkg/registry"
	"loyalty_rewards/pkg/kvstore"
	"loyalty_rewards/pkg/response"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// 注册通用路由
	setupRoutes(ctx.Router, ctx.Store)
	return nil
}

func setupRoutes(r *gin.Engine, store kvstore.Store) {
	r.GET("/health", healthHandler(store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthHandler 存储可用时返回 200
func healthHandler(store kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "store unavailable")
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
