package middleware

import (
	"loyalty_rewards/pkg/metrics"
	"loyalty_rewards/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStaffAuthMiddleware(t *testing.T) {
	const key = "signing-key"

	r := gin.New()
	r.GET("/whoami", StaffAuthMiddleware(key), func(c *gin.Context) {
		shop, ok := StaffShop(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, shop)
	})

	token, _, err := utils.GenerateStaffToken(key, "acme", time.Hour)
	require.NoError(t, err)
	otherKey, _, err := utils.GenerateStaffToken("other-key", "acme", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"No header", "", http.StatusOK, "anonymous"},
		{"Valid token", "Bearer " + token, http.StatusOK, "acme"},
		{"Wrong signing key", "Bearer " + otherKey, http.StatusUnauthorized, ""},
		{"Bad format", "Token " + token, http.StatusUnauthorized, ""},
		{"Garbage", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/earn", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/earn", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 其他 IP 不受影响
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/earn", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterPerShop(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	r := gin.New()
	r.POST("/shops/:slug/earn", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(slug string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/shops/"+slug+"/earn", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("acme"))
	assert.Equal(t, http.StatusTooManyRequests, send("acme"))
	assert.Equal(t, http.StatusOK, send("bakery"))
}

func TestRateLimiterEvictsIdle(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("a")
	limiter.GetLimiter("b")
	assert.Equal(t, 2, limiter.Len())

	now = now.Add(idleTTL + time.Minute)
	limiter.GetLimiter("c")
	assert.Equal(t, 1, limiter.Len())
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, TraceID(c)) })

	t.Run("Keeps valid upstream id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "6f1c2a8e-4a8b-4f39-9d1c-0b6f6c1f1e2d")
		r.ServeHTTP(w, req)
		assert.Equal(t, "6f1c2a8e-4a8b-4f39-9d1c-0b6f6c1f1e2d", w.Body.String())
		assert.Equal(t, "6f1c2a8e-4a8b-4f39-9d1c-0b6f6c1f1e2d", w.Header().Get("X-Trace-ID"))
	})

	t.Run("Replaces invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "<script>")
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "<script>", w.Body.String())
		assert.Len(t, w.Body.String(), 36)
	})
}

func TestRecoveryAndMetrics(t *testing.T) {
	collector := metrics.NewMetricsCollector(prometheus.NewRegistry())
	r := gin.New()
	r.Use(MetricsMiddleware(collector), RecoveryMiddleware(), LoggerMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":50001`)
}
