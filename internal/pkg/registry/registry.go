package registry

import (
	"loyalty_rewards/internal/pkg/config"
	"loyalty_rewards/pkg/kvstore"
	"loyalty_rewards/pkg/metrics"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	Store   kvstore.Store
	Router  *gin.Engine
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.MetricsCollector

	shutdown []func()
}

// OnShutdown 注册退出时执行的清理函数（逆序执行）
func (c *ModuleContext) OnShutdown(fn func()) {
	c.shutdown = append(c.shutdown, fn)
}

// Shutdown 执行所有清理函数
func (c *ModuleContext) Shutdown() {
	for i := len(c.shutdown) - 1; i >= 0; i-- {
		c.shutdown[i]()
	}
	c.shutdown = nil
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块，优先级相同时按名称排序
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
		if ctx.Logger != nil {
			ctx.Logger.Info("module initialized", zap.String("module", module.Name()))
		}
	}

	return nil
}
