package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solemia/studio-api/docs"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/config"
	"github.com/solemia/studio-api/internal/database"
	"github.com/solemia/studio-api/internal/http/handler"
	"github.com/solemia/studio-api/internal/http/middleware"
	"github.com/solemia/studio-api/internal/http/router"
	"github.com/solemia/studio-api/internal/jobs"
	"github.com/solemia/studio-api/internal/logger"
	"github.com/solemia/studio-api/internal/posimport"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/service"
	"github.com/solemia/studio-api/internal/storage"
	"go.uber.org/zap"
)

// @title Solemia Studio API
// @version 1.0
// @description Client directory, segmentation and statistics API for the Solemia studios
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email soporte@solemia.mx

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "studio-api-staging.solemia.mx"
	case "production":
		docs.SwaggerInfo.Host = "api.solemia.mx"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// In development the schema is kept in sync automatically; deployed
	// environments run goose migrations via cmd/migrate instead.
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto-migrations: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize the POS database connection (optional, read-only).
	// The app continues without it; imports are simply skipped.
	var posClient *posimport.Client
	if cfg.POSImport.Enabled {
		posClient, err = posimport.NewClient(&cfg.POSImport, log)
		if err != nil {
			log.Warn("POS database connection failed, continuing without imports",
				zap.Error(err),
			)
		} else if posClient != nil {
			log.Info("POS database connected successfully",
				zap.Int("max_open_conns", cfg.POSImport.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.POSImport.QueryTimeout),
			)
		}
	} else {
		log.Info("POS import not configured, skipping",
			zap.Bool("enabled", cfg.POSImport.Enabled),
		)
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	clientService := service.NewClientService(clientRepo, visitRepo, segmentRepo, log)
	visitService := service.NewVisitService(visitRepo, log)
	segmentService := service.NewSegmentService(segmentRepo, log)
	statisticsService := service.NewStatisticsService(visitRepo, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, clientRepo, fileStorage, log)
	tenantService := service.NewTenantService(tenantRepo)
	userService := service.NewUserService(userRepo, tenantRepo, log)
	auditLogService := service.NewAuditLogService(auditLogRepo, log)
	posSyncService := service.NewPOSSyncService(posClient, visitRepo, auditLogService, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	tenantFilterMiddleware := middleware.NewTenantFilterMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditLogService, nil, log)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService, log)
	visitHandler := handler.NewVisitHandler(visitService, log)
	segmentHandler := handler.NewSegmentHandler(segmentService, log)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, log)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, cfg.Storage.MaxUploadSizeMB, log)
	authHandler := handler.NewAuthHandler(userService, log)
	tenantHandler := handler.NewTenantHandler(tenantService, log)
	auditHandler := handler.NewAuditHandler(auditLogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		posClient,
		authMiddleware,
		tenantFilterMiddleware,
		rateLimiter,
		auditMiddleware,
		clientHandler,
		visitHandler,
		segmentHandler,
		statisticsHandler,
		attachmentHandler,
		authHandler,
		tenantHandler,
		auditHandler,
	)

	// Initialize and start scheduler for the nightly POS import
	var scheduler *jobs.Scheduler
	if posClient != nil && posClient.IsEnabled() {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterPOSSyncJob(
			scheduler,
			posSyncService,
			log,
			cfg.POSImport.SyncSchedule,
			cfg.POSImport.SyncTimeoutDuration(),
			true, // catch up on startup
		); err != nil {
			log.Error("Failed to register POS import job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with POS import job",
				zap.String("cron_expr", cfg.POSImport.SyncSchedule),
				zap.Duration("timeout", cfg.POSImport.SyncTimeoutDuration()),
			)
		}
	} else {
		log.Info("POS import job disabled",
			zap.Bool("pos_enabled", cfg.POSImport.Enabled),
			zap.Bool("pos_client_available", posClient != nil),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close POS connection if initialized
		if posClient != nil {
			if err := posClient.Close(); err != nil {
				log.Warn("Error closing POS database connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
