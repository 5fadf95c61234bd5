// Package posimport provides read-only connectivity to the legacy point-of-sale
// MS SQL Server database. The nightly sync job reads checkout lines from it and
// turns them into visit records; nothing is ever written back.
package posimport

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"github.com/solemia/studio-api/internal/config"
	"github.com/solemia/studio-api/internal/domain"
	"go.uber.org/zap"
)

const (
	// Default retry configuration for connection attempts
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	// Default health check timeout
	defaultHealthCheckTimeout = 5 * time.Second
)

// TenantMapping maps studio identifiers to POS database table name prefixes
var TenantMapping = map[domain.TenantID]string{
	domain.TenantSalon:     "solemia_beauty",
	domain.TenantNutrition: "solemia_nutricion",
}

// Client provides read-only access to the legacy POS database.
// It manages connection pooling and provides methods for executing queries.
type Client struct {
	db           *sql.DB
	config       *config.POSImportConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// CheckoutLine is one POS ticket line: a service performed or a product sold.
type CheckoutLine struct {
	Ref         string
	ClientName  string
	OccurredAt  time.Time
	ServiceName string
	Category    string
	Amount      float64
	StaffName   string
	NPS         *int
	Commission  *float64
	IsNewClient bool
}

// HealthStatus represents the health check result for the POS connection
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
	WaitCount  int64         `json:"wait_count"`
	WaitTimeMs int64         `json:"wait_time_ms"`
}

// NewClient creates a new POS client with the given configuration.
// Returns nil if the POS import is not enabled or not configured.
// The client establishes a connection pool with retry logic for transient failures.
func NewClient(cfg *config.POSImportConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("POS import connection disabled")
		return nil, nil
	}

	// Validate required configuration
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("POS import enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	logger.Info("Initializing POS database connection",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.ConnMaxLifetime),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	// Build connection string
	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	// Attempt connection with retry logic
	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting POS database connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err != nil {
			logger.Warn("Failed to open POS database connection",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		// Configure connection pool
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

		// Test connection with ping
		ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.Warn("POS database ping failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			_ = db.Close()
			if attempt < defaultMaxRetries {
				time.Sleep(backoff)
				backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
			}
			continue
		}

		// Connection successful
		logger.Info("POS database connection established successfully",
			zap.Int("attempts_taken", attempt),
		)

		return &Client{
			db:           db,
			config:       cfg,
			logger:       logger,
			queryTimeout: cfg.QueryTimeoutDuration(),
		}, nil
	}

	return nil, fmt.Errorf("failed to connect to POS database after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString constructs a SQL Server connection string from the config.
// URL format expected: host:port/database or host:port (uses default database)
func buildConnectionString(cfg *config.POSImportConfig) (string, error) {
	// Parse URL format: host:port/database or host:port
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	// Parse host and port
	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433" // Default SQL Server port
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	// Build connection string using URL format
	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the POS database connection.
// Should be called during application shutdown.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing POS database connection")

	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close POS database connection", zap.Error(err))
		return fmt.Errorf("failed to close POS database connection: %w", err)
	}

	c.logger.Info("POS database connection closed successfully")
	return nil
}

// HealthCheck performs a health check on the POS database connection.
// Returns detailed status including connection pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{
			Status: "disabled",
		}
	}

	start := time.Now()

	// Use provided context or create one with default timeout
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency:    latency,
		MaxOpen:    stats.MaxOpenConnections,
		Open:       stats.OpenConnections,
		InUse:      stats.InUse,
		Idle:       stats.Idle,
		WaitCount:  stats.WaitCount,
		WaitTimeMs: stats.WaitDuration.Milliseconds(),
	}

	if err != nil {
		c.logger.Warn("POS database health check failed",
			zap.Error(err),
			zap.Duration("latency", latency),
		)
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

// GetCheckoutTableName returns the fully qualified table name for a studio's
// checkout lines table in the POS database.
func GetCheckoutTableName(tenantID domain.TenantID) (string, error) {
	prefix, ok := TenantMapping[tenantID]
	if !ok {
		return "", fmt.Errorf("unknown tenant ID: %s", tenantID)
	}
	return fmt.Sprintf("dbo.%s_checkoutline", prefix), nil
}

// FetchCheckoutLines reads checkout lines recorded since the given time for
// one studio. Lines are returned oldest first.
func (c *Client) FetchCheckoutLines(ctx context.Context, tenantID domain.TenantID, since time.Time) ([]CheckoutLine, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("POS client not initialized")
	}

	table, err := GetCheckoutTableName(tenantID)
	if err != nil {
		return nil, err
	}

	// Apply default query timeout if context doesn't have a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	query := fmt.Sprintf(`SELECT ref, client_name, occurred_at, service_name, category,
amount, staff_name, nps, commission, is_new_client
FROM %s WHERE occurred_at > @p1 ORDER BY occurred_at ASC`, table)

	c.logger.Debug("Fetching POS checkout lines",
		zap.String("tenant_id", string(tenantID)),
		zap.Time("since", since),
	)

	start := time.Now()

	rows, err := c.db.QueryContext(ctx, query, since)
	if err != nil {
		c.logger.Error("POS checkout query failed",
			zap.Error(err),
			zap.String("tenant_id", string(tenantID)),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var lines []CheckoutLine
	for rows.Next() {
		var line CheckoutLine
		var nps sql.NullInt64
		var commission sql.NullFloat64

		if err := rows.Scan(
			&line.Ref,
			&line.ClientName,
			&line.OccurredAt,
			&line.ServiceName,
			&line.Category,
			&line.Amount,
			&line.StaffName,
			&nps,
			&commission,
			&line.IsNewClient,
		); err != nil {
			return nil, fmt.Errorf("failed to scan checkout line: %w", err)
		}

		if nps.Valid {
			v := int(nps.Int64)
			line.NPS = &v
		}
		if commission.Valid {
			v := commission.Float64
			line.Commission = &v
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkout lines: %w", err)
	}

	c.logger.Debug("POS checkout lines fetched",
		zap.Int("rows_returned", len(lines)),
		zap.Duration("duration", time.Since(start)),
	)

	return lines, nil
}

// IsEnabled returns true if the client is initialized and ready for queries.
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}
