package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sweetshop/internal/config"
)

const (
	maxOpenConns    = 20
	connMaxIdleTime = 30 * time.Second
	connMaxLifetime = 30 * time.Minute
)

// OpenFunc opens a GORM connection for a DSN. Swappable in tests.
type OpenFunc func(dsn string) (*gorm.DB, error)

// Gateway owns the lazily initialized connection pool. The pool is built at
// most once, on first use; concurrent first calls converge on a single
// initialization and share its outcome.
type Gateway struct {
	cfg  *config.Config
	open OpenFunc

	once sync.Once
	db   *gorm.DB
	err  error
}

// New creates a gateway that connects on first use.
func New(cfg *config.Config) *Gateway {
	return &Gateway{cfg: cfg, open: openPostgres}
}

// NewWithOpener creates a gateway with a custom connection opener.
func NewWithOpener(cfg *config.Config, open OpenFunc) *Gateway {
	return &Gateway{cfg: cfg, open: open}
}

// DB returns the shared connection pool, initializing it on first call.
// An initialization failure is sticky: every subsequent call sees the same
// error rather than retrying the connection.
func (g *Gateway) DB(ctx context.Context) (*gorm.DB, error) {
	g.once.Do(func() {
		g.db, g.err = g.initialize(ctx)
	})
	return g.db, g.err
}

// Ping verifies database connectivity with a trivial probe query. Used by the
// health endpoint; does not panic or exit when the database is unreachable.
func (g *Gateway) Ping(ctx context.Context) error {
	db, err := g.DB(ctx)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Exec("SELECT 1").Error
}

func (g *Gateway) initialize(ctx context.Context) (*gorm.DB, error) {
	if g.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf(
			"database connection string not found: set one of %s",
			strings.Join(config.DatabaseURLSources, ", "),
		)
	}

	dsn := withSSLMode(g.cfg.DatabaseURL, g.cfg.DBSSLMode)
	db, err := g.open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("database connectivity probe failed: %w", err)
	}
	return db, nil
}

// withSSLMode appends the configured sslmode unless the DSN already carries
// one. The TLS policy is an explicit configuration value, never inferred.
func withSSLMode(dsn string, mode config.SSLMode) string {
	if mode == "" || strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "sslmode=" + string(mode)
}

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
