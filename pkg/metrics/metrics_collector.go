package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 存储指标
	storeOperationDuration *prometheus.HistogramVec
	storeErrorsTotal       *prometheus.CounterVec

	// 积分账本指标
	ledgerOperationsTotal *prometheus.CounterVec
	ledgerConflictsTotal  *prometheus.CounterVec
	rewardsEarnedTotal    prometheus.Counter

	// 异步任务指标
	activityDroppedTotal prometheus.Counter
	activeGoroutines     prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		storeOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Key-value store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		storeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_errors_total",
				Help: "Total number of key-value store failures",
			},
			[]string{"operation"},
		),

		ledgerOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_ledger_operations_total",
				Help: "Earn and redeem attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),

		ledgerConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loyalty_ledger_conflicts_total",
				Help: "Optimistic concurrency conflicts on customer accounts",
			},
			[]string{"operation"},
		),

		rewardsEarnedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loyalty_rewards_earned_total",
				Help: "Rewards granted after reaching the shop threshold",
			},
		),

		activityDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loyalty_activity_dropped_total",
				Help: "Activity entries dropped after exhausting retries or queue capacity",
			},
		),

		activeGoroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_goroutines",
				Help: "Number of active goroutines",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStoreOperation 记录存储操作
func (m *MetricsCollector) RecordStoreOperation(operation string, duration time.Duration, err error) {
	m.storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.storeErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordLedgerOperation 记录积分/兑换结果
func (m *MetricsCollector) RecordLedgerOperation(operation, outcome string) {
	m.ledgerOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordLedgerConflict 记录乐观锁冲突
func (m *MetricsCollector) RecordLedgerConflict(operation string) {
	m.ledgerConflictsTotal.WithLabelValues(operation).Inc()
}

// RecordRewardEarned 记录获得奖励
func (m *MetricsCollector) RecordRewardEarned() {
	m.rewardsEarnedTotal.Inc()
}

// RecordActivityDropped 记录丢弃的动态
func (m *MetricsCollector) RecordActivityDropped() {
	m.activityDroppedTotal.Inc()
}

// UpdateActiveGoroutines 更新活跃 goroutine 数量
func (m *MetricsCollector) UpdateActiveGoroutines(count int) {
	m.activeGoroutines.Set(float64(count))
}

var (
	globalCollector *MetricsCollector
	initOnce        sync.Once
)

// GetGlobalCollector 获取全局指标收集器（注册到默认 Registry）
func GetGlobalCollector() *MetricsCollector {
	initOnce.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
