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

func corsPreflight(cfg *config.CORSConfig, environment, origin string) *httptest.ResponseRecorder {
	handler := middleware.CORS(cfg, environment, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCORS_DevelopmentAllowsAllOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins:   []string{},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	w := corsPreflight(cfg, "development", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExplicitOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins:   []string{"https://studio.solemia.mx", "https://admin.solemia.mx"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	w := corsPreflight(cfg, "production", "https://studio.solemia.mx")
	assert.Equal(t, "https://studio.solemia.mx", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins:   []string{"https://studio.solemia.mx"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	w := corsPreflight(cfg, "production", "https://malicious.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
