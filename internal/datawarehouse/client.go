// Package datawarehouse exports leads to the MS SQL Server reporting
// warehouse used by the business dashboards.
package datawarehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/config"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
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

	// DefaultTable receives exported leads when none is configured
	DefaultTable = "dbo.website_leads"
)

// ErrNotInitialized is returned by a disabled client
var ErrNotInitialized = errors.New("data warehouse client not initialized")

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Client writes lead snapshots to the data warehouse.
type Client struct {
	db           *sql.DB
	config       *config.DataWarehouseConfig
	logger       *zap.Logger
	table        string
	queryTimeout time.Duration
}

// HealthStatus represents the health check result for the data warehouse connection
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

// NewClient creates a new data warehouse client with the given configuration.
// Returns nil if the data warehouse is not enabled or not configured.
// The client establishes a connection pool with retry logic for transient failures.
func NewClient(cfg *config.DataWarehouseConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Data warehouse export disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Data warehouse enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	table, err := resolveTable(cfg.Table)
	if err != nil {
		return nil, err
	}

	connStr := buildConnectionString(cfg)

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		db, err = open(connStr, cfg)
		if err == nil {
			logger.Info("Data warehouse connection established",
				zap.Int("attempts_taken", attempt),
				zap.String("table", table),
			)
			return &Client{
				db:           db,
				config:       cfg,
				logger:       logger,
				table:        table,
				queryTimeout: cfg.QueryTimeoutDuration(),
			}, nil
		}

		logger.Warn("Data warehouse connection attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)
		if attempt < defaultMaxRetries {
			time.Sleep(backoff)
			backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to data warehouse after %d attempts: %w", defaultMaxRetries, err)
}

func open(connStr string, cfg *config.DataWarehouseConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func resolveTable(name string) (string, error) {
	if name == "" {
		return DefaultTable, nil
	}
	if !tableNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid data warehouse table name %q", name)
	}
	return name, nil
}

// buildConnectionString constructs a SQL Server connection string from the config.
// URL format expected: host:port/database or host:port (uses default database)
func buildConnectionString(cfg *config.DataWarehouseConfig) string {
	hostPort, database, _ := strings.Cut(cfg.URL, "/")

	host, port, ok := strings.Cut(hostPort, ":")
	if !ok {
		port = "1433"
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	query.Add("app name", "lead-api")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Close gracefully closes the data warehouse connection.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close data warehouse connection", zap.Error(err))
		return fmt.Errorf("failed to close data warehouse connection: %w", err)
	}

	c.logger.Info("Data warehouse connection closed")
	return nil
}

// HealthCheck performs a health check on the data warehouse connection.
// Returns detailed status including connection pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{
			Status: "disabled",
		}
	}

	start := time.Now()

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
		c.logger.Warn("Data warehouse health check failed",
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

// mergeStatement upserts one lead row keyed by lead_id
func mergeStatement(table string) string {
	return `MERGE ` + table + ` WITH (HOLDLOCK) AS target
USING (SELECT @p1 AS lead_id) AS source
ON target.lead_id = source.lead_id
WHEN MATCHED THEN UPDATE SET
	status = @p2, services = @p3, property_type = @p4, city = @p5, zip_code = @p6,
	preferred_timeframe = @p7, created_at = @p8, updated_at = @p9, exported_at = SYSUTCDATETIME()
WHEN NOT MATCHED THEN INSERT
	(lead_id, status, services, property_type, city, zip_code, preferred_timeframe, created_at, updated_at, exported_at)
	VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, SYSUTCDATETIME());`
}

// leadRow flattens a lead to the warehouse columns. Contact details stay in
// the operational database.
func leadRow(l *domain.Lead) []any {
	return []any{
		l.ID.String(),
		string(l.Status),
		strings.Join(l.Services, ", "),
		l.PropertyType,
		l.City,
		l.ZipCode,
		l.PreferredTimeframe,
		l.CreatedAt.UTC(),
		l.UpdatedAt.UTC(),
	}
}

// ExportLeads upserts the given leads in one transaction and returns how
// many rows were written.
func (c *Client) ExportLeads(ctx context.Context, leads []domain.Lead) (int, error) {
	if !c.IsEnabled() {
		return 0, ErrNotInitialized
	}
	if len(leads) == 0 {
		return 0, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, mergeStatement(c.table))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare export: %w", err)
	}
	defer stmt.Close()

	for i := range leads {
		if _, err := stmt.ExecContext(ctx, leadRow(&leads[i])...); err != nil {
			return 0, fmt.Errorf("failed to export lead %s: %w", leads[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit export: %w", err)
	}

	c.logger.Info("Exported leads to data warehouse",
		zap.Int("rows", len(leads)),
		zap.String("table", c.table),
		zap.Duration("duration", time.Since(start)),
	)
	return len(leads), nil
}

// LastExportedUpdate returns the newest updated_at already in the warehouse,
// or the zero time for an empty table
func (c *Client) LastExportedUpdate(ctx context.Context) (time.Time, error) {
	if !c.IsEnabled() {
		return time.Time{}, ErrNotInitialized
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	var last sql.NullTime
	if err := c.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM "+c.table).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("failed to read export watermark: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time.UTC(), nil
}

// IsEnabled returns true if the client is initialized and ready for queries.
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}
