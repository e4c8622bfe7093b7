package middleware

import (
	"loyalty_rewards/pkg/response"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleTTL 超过该时间未访问的限流器会被清理
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 按 IP + 门店限流，防止暴力枚举购买码和 secret
type IPRateLimiter struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	r         rate.Limit
	b         int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter 创建限流器
// r: 每秒允许的请求数 (QPS)
// b: 桶的大小 (Burst)
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		r:         r,
		b:         b,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// GetLimiter 获取指定 key 的限流器
func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) > idleTTL {
		for k, v := range i.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(i.visitors, k)
			}
		}
		i.lastSweep = now
	}

	v, exists := i.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Len 当前跟踪的 key 数量
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.visitors)
}

// Middleware 限流中间件，每个门店单独计数
func (i *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.Param("slug")
		if !i.GetLimiter(key).Allow() {
			response.Abort(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
