package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/config"
	"github.com/solemia/studio-api/internal/database"
	"github.com/solemia/studio-api/internal/http/handler"
	"github.com/solemia/studio-api/internal/http/middleware"
	"github.com/solemia/studio-api/internal/posimport"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/solemia/studio-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                    *config.Config
	logger                 *zap.Logger
	db                     *gorm.DB
	posClient              *posimport.Client
	authMiddleware         *auth.Middleware
	tenantFilterMiddleware *middleware.TenantFilterMiddleware
	rateLimiter            *middleware.RateLimiter
	auditMiddleware        *middleware.AuditMiddleware
	clientHandler          *handler.ClientHandler
	visitHandler           *handler.VisitHandler
	segmentHandler         *handler.SegmentHandler
	statisticsHandler      *handler.StatisticsHandler
	attachmentHandler      *handler.AttachmentHandler
	authHandler            *handler.AuthHandler
	tenantHandler          *handler.TenantHandler
	auditHandler           *handler.AuditHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	posClient *posimport.Client,
	authMiddleware *auth.Middleware,
	tenantFilterMiddleware *middleware.TenantFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	clientHandler *handler.ClientHandler,
	visitHandler *handler.VisitHandler,
	segmentHandler *handler.SegmentHandler,
	statisticsHandler *handler.StatisticsHandler,
	attachmentHandler *handler.AttachmentHandler,
	authHandler *handler.AuthHandler,
	tenantHandler *handler.TenantHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:                    cfg,
		logger:                 logger,
		db:                     db,
		posClient:              posClient,
		authMiddleware:         authMiddleware,
		tenantFilterMiddleware: tenantFilterMiddleware,
		rateLimiter:            rateLimiter,
		auditMiddleware:        auditMiddleware,
		clientHandler:          clientHandler,
		visitHandler:           visitHandler,
		segmentHandler:         segmentHandler,
		statisticsHandler:      statisticsHandler,
		attachmentHandler:      attachmentHandler,
		authHandler:            authHandler,
		tenantHandler:          tenantHandler,
		auditHandler:           auditHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// The POS link is optional; an unhealthy link degrades imports but
		// does not make the API itself unready.
		if rt.posClient != nil && rt.posClient.IsEnabled() {
			checks["posimport"] = rt.posClient.HealthCheck(r.Context())
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.tenantFilterMiddleware.Filter)
			r.Use(rt.auditMiddleware.Audit) // Audit all modifications

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Get("/users", rt.authHandler.ListUsers)

			// Tenants
			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", rt.tenantHandler.List)
				r.Get("/{id}", rt.tenantHandler.GetByID)
			})

			// Audit logs (owners and managers only)
			r.Route("/audit", func(r chi.Router) {
				r.Get("/", rt.auditHandler.List)
				r.Get("/stats", rt.auditHandler.GetStats)
				r.Get("/entity/{entityType}/{entityId}", rt.auditHandler.GetByEntity)
				r.Get("/{id}", rt.auditHandler.GetByID)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.Directory)
				r.Get("/export", rt.clientHandler.ExportCSV)
				r.With(rt.authMiddleware.RequireWriter).Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.With(rt.authMiddleware.RequireWriter).Put("/{id}", rt.clientHandler.Update)
				r.With(rt.authMiddleware.RequireWriter).Delete("/{id}", rt.clientHandler.Delete)
				r.Get("/{id}/attachments", rt.attachmentHandler.ListByClient)
				r.With(rt.authMiddleware.RequireWriter).Post("/{id}/attachments", rt.attachmentHandler.Upload)
			})

			// Attachments
			r.Route("/attachments", func(r chi.Router) {
				r.Get("/{id}/download", rt.attachmentHandler.Download)
				r.With(rt.authMiddleware.RequireWriter).Delete("/{id}", rt.attachmentHandler.Delete)
			})

			// Visits
			r.Route("/visits", func(r chi.Router) {
				r.Get("/", rt.visitHandler.List)
				r.With(rt.authMiddleware.RequireWriter).Post("/", rt.visitHandler.Create)
				r.Get("/{id}", rt.visitHandler.GetByID)
				r.With(rt.authMiddleware.RequireWriter).Delete("/{id}", rt.visitHandler.Delete)
			})

			// Segments
			r.Route("/segments", func(r chi.Router) {
				r.Get("/", rt.segmentHandler.List)
				r.With(rt.authMiddleware.RequireWriter).Post("/", rt.segmentHandler.Create)
				r.Get("/{id}", rt.segmentHandler.GetByID)
				r.With(rt.authMiddleware.RequireWriter).Put("/{id}", rt.segmentHandler.Update)
				r.With(rt.authMiddleware.RequireWriter).Delete("/{id}", rt.segmentHandler.Delete)
			})

			// Statistics
			r.Route("/statistics", func(r chi.Router) {
				r.Get("/kpis", rt.statisticsHandler.KPIs)
				r.Get("/revenue", rt.statisticsHandler.Revenue)
				r.Get("/staff", rt.statisticsHandler.Staff)
				r.Get("/sales-profile", rt.statisticsHandler.SalesProfile)
			})
		})
	})

	return r
}
