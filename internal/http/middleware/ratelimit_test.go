package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solemia/studio-api/internal/config"
	"github.com/solemia/studio-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func rateLimitedHandler(cfg *config.RateLimitConfig, calls *int) http.Handler {
	rl := middleware.NewRateLimiter(cfg, zap.NewNop())
	return rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiter_Disabled(t *testing.T) {
	var calls int
	handler := rateLimitedHandler(&config.RateLimitConfig{
		Enabled:           false,
		RequestsPerMinute: 5,
	}, &calls)

	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 100, calls)
}

func TestRateLimiter_WhitelistedIP(t *testing.T) {
	var calls int
	handler := rateLimitedHandler(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"127.0.0.1"},
	}, &calls)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 50, calls)
}

func TestRateLimiter_WhitelistedPath(t *testing.T) {
	var calls int
	handler := rateLimitedHandler(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistPaths:    []string{"/health"},
	}, &calls)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 50, calls)
}

func TestRateLimiter_LimitEnforced(t *testing.T) {
	var calls int
	handler := rateLimitedHandler(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 3,
	}, &calls)

	limited := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.5:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Greater(t, limited, 0)
	assert.LessOrEqual(t, calls, 4)
}
