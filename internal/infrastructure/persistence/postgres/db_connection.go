// Package postgres provides the PostgreSQL-backed repositories of the
// policy core. Connection pooling and lifecycle management go through gorm.
package postgres

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/grc/internal/config"
	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// DBConnection manages the PostgreSQL connection pool lifecycle.
type DBConnection struct {
	db     *gorm.DB
	config *config.DatabaseConfig
	logger logger.Logger
}

// NewDBConnection opens the database, tunes the pool and performs an
// initial health check.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "database configuration is required")
	}

	log.Info(ctx, "initializing postgres connection pool", logger.Fields{
		"host":      cfg.Host,
		"port":      cfg.Port,
		"database":  cfg.Database,
		"max_conns": cfg.MaxConns,
	})

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to access connection pool")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.MaxConnIdleTime) * time.Minute)

	conn := &DBConnection{db: db, config: cfg, logger: log}
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}

	return conn, nil
}

// DB returns the underlying gorm handle for repository construction.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Ping verifies database connectivity.
func (c *DBConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sqlDB, err := c.db.DB()
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "failed to access connection pool")
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		c.logger.Error(ctx, "database ping failed", err)
		return errors.Wrap(err, errors.CodeUnavailable, "database unreachable")
	}
	return nil
}

// Migrate creates or updates the schema for the policy core's tables. The
// partial unique index guarantees at most one in-progress workflow per
// resource even across processes.
func (c *DBConnection) Migrate(ctx context.Context) error {
	db := c.db.WithContext(ctx)
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.GovernanceScope{},
		&models.Asset{},
		&models.Risk{},
		&models.Control{},
		&models.Document{},
		&models.Incident{},
		&models.RiskTreatmentPlan{},
		&models.WorkflowInstance{},
	); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "schema migration failed")
	}

	err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_workflow_active
		 ON workflow_instances (resource_type, resource_id)
		 WHERE status = 'in_progress'`,
	).Error
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create active-workflow index")
	}
	return nil
}

// Close shuts down the connection pool.
func (c *DBConnection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
