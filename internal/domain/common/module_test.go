package common

import (
	"context"
	"errors"
	"loyalty_rewards/pkg/kvstore"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type downStore struct {
	*kvstore.MemoryStore
}

func (downStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		store  kvstore.Store
		status int
	}{
		{"Store up", kvstore.NewMemoryStore(), http.StatusOK},
		{"Store down", downStore{kvstore.NewMemoryStore()}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			setupRoutes(r, tt.store)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setupRoutes(r, kvstore.NewMemoryStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
