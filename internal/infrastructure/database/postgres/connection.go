// Package postgres keeps the run history in PostgreSQL. The schema is
// managed by embedded golang-migrate migrations applied on startup.
package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
)

// Connection owns the pgx connection pool.
type Connection struct {
	pool   *pgxpool.Pool
	cfg    config.PostgresConfig
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens the pool and verifies it with a ping.
func NewConnection(ctx context.Context, cfg config.PostgresConfig, logger logging.Logger) (*Connection, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	poolCfg, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid postgres connection settings")
	}
	configurePool(poolCfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "database connection failed").
			WithDetail(cfg.Host + ":" + strconv.Itoa(cfg.Port))
	}

	logger.Info("Connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
	)
	return &Connection{pool: pool, cfg: cfg, logger: logger}, nil
}

// Pool returns the underlying pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// HealthCheck pings the database and warns when the pool is nearly
// exhausted.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "database health check failed")
	}
	stat := c.pool.Stat()
	if max := stat.MaxConns(); max > 0 {
		usage := float64(stat.AcquiredConns()) / float64(max)
		if usage > 0.8 {
			c.logger.Warn("High database connection pool usage",
				logging.Int("acquired", int(stat.AcquiredConns())),
				logging.Int("max", int(max)),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close releases the pool. Safe to call more than once.
func (c *Connection) Close() {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("Closed PostgreSQL connection pool")
	})
}

// buildConnString renders cfg as a postgres:// URL.
func buildConnString(cfg config.PostgresConfig) string {
	return connURL("postgres", cfg)
}

func connURL(scheme string, cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u.RawQuery = url.Values{"sslmode": {sslMode}}.Encode()
	return u.String()
}

// configurePool applies the pool bounds and the per-session statement
// timeout. Zero values keep the pgx defaults.
func configurePool(poolCfg *pgxpool.Config, cfg config.PostgresConfig) {
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.StatementTimeout > 0 {
		if poolCfg.ConnConfig.RuntimeParams == nil {
			poolCfg.ConnConfig.RuntimeParams = make(map[string]string)
		}
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
}

//Personal.AI order the ending
