package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsCollector(reg)

	m.RecordLedgerOperation("earn", "success")
	m.RecordLedgerOperation("earn", "success")
	m.RecordLedgerOperation("earn", "invalid_code")
	m.RecordLedgerConflict("redeem")
	m.RecordRewardEarned()
	m.RecordStoreOperation("get", time.Millisecond, nil)
	m.RecordStoreOperation("update", time.Millisecond, errors.New("boom"))
	m.RecordHTTPRequest("POST", "/shops/:slug/earn", "200", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerOperationsTotal.WithLabelValues("earn", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOperationsTotal.WithLabelValues("earn", "invalid_code")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerConflictsTotal.WithLabelValues("redeem")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rewardsEarnedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.storeErrorsTotal.WithLabelValues("get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrorsTotal.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/shops/:slug/earn", "200")))
}

func TestGetGlobalCollectorSingleton(t *testing.T) {
	assert.Same(t, GetGlobalCollector(), GetGlobalCollector())
}
