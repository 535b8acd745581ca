// Package config defines the configuration structures for hmoment and
// hmoment-apiserver.  Only plain data types and validation live here; file
// and environment loading is in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// MomentConfig holds the defaults of a hydropathy moment run.
type MomentConfig struct {
	Radius       float64 `mapstructure:"radius"`
	RadiusMin    float64 `mapstructure:"radius_min"`
	RadiusMax    float64 `mapstructure:"radius_max"`
	Scale        string  `mapstructure:"scale"`
	DistanceMode string  `mapstructure:"distance_mode"` // "truncated" | "continuous"
	Workers      int     `mapstructure:"workers"`
	RSAThreshold float64 `mapstructure:"rsa_threshold"`
	ACCArray     string  `mapstructure:"acc_array"` // "Sander" | "Miller" | "Wilke"
	MaxResidues  int     `mapstructure:"max_residues"`
}

// RadiusWindow returns the configured radius bounds.
func (m MomentConfig) RadiusWindow() hydropathy.RadiusWindow {
	return hydropathy.RadiusWindow{Min: m.RadiusMin, Max: m.RadiusMax}
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests/s per client; 0 disables
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig holds the result-cache connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds the report-archive object-storage parameters.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	RetentionDays int           `mapstructure:"retention_days"` // 0 keeps reports forever
}

// KafkaConfig holds the job queue and run event parameters.
type KafkaConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	Brokers           []string `mapstructure:"brokers"`
	ClientID          string   `mapstructure:"client_id"`
	RequestTopic      string   `mapstructure:"request_topic"`
	EventTopic        string   `mapstructure:"event_topic"`
	DeadLetterTopic   string   `mapstructure:"dead_letter_topic"`
	GroupID           string   `mapstructure:"group_id"`
	Acks              string   `mapstructure:"acks"`        // "none" | "one" | "all"
	Compression       string   `mapstructure:"compression"` // "" | gzip | snappy | lz4 | zstd
	MaxRetries        int      `mapstructure:"max_retries"`
	ReplicationFactor int      `mapstructure:"replication_factor"`
	SASLMechanism     string   `mapstructure:"sasl_mechanism"`
	SASLUsername      string   `mapstructure:"sasl_username"`
	SASLPassword      string   `mapstructure:"sasl_password"`
}

// PostgresConfig holds the run-history database parameters.
type PostgresConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Database         string        `mapstructure:"database"`
	Username         string        `mapstructure:"username"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	MaxConnLifetime  time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `mapstructure:"max_conn_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	SkipMigrations   bool          `mapstructure:"skip_migrations"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Moment   MomentConfig      `mapstructure:"moment"`
	Server   ServerConfig      `mapstructure:"server"`
	Redis    RedisConfig       `mapstructure:"redis"`
	MinIO    MinIOConfig       `mapstructure:"minio"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	Postgres PostgresConfig    `mapstructure:"postgres"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
	Log      logging.LogConfig `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	// Moment
	m := c.Moment
	if m.RadiusMin <= 0 {
		return fmt.Errorf("config: moment.radius_min must be > 0, got %g", m.RadiusMin)
	}
	if m.RadiusMax < m.RadiusMin {
		return fmt.Errorf("config: moment.radius_max %g is below radius_min %g", m.RadiusMax, m.RadiusMin)
	}
	if err := m.RadiusWindow().Check(m.Radius); err != nil {
		return fmt.Errorf("config: moment.radius: %w", err)
	}
	if _, err := hydropathy.LookupScale(m.Scale); err != nil {
		return fmt.Errorf("config: moment.scale: %w", err)
	}
	if _, err := hydropathy.ParseDistanceMode(m.DistanceMode); err != nil {
		return fmt.Errorf("config: moment.distance_mode: %w", err)
	}
	if m.Workers < 1 {
		return fmt.Errorf("config: moment.workers must be ≥ 1, got %d", m.Workers)
	}
	if err := hydropathy.CheckRSAThreshold(m.RSAThreshold); err != nil {
		return fmt.Errorf("config: moment.rsa_threshold: %w", err)
	}
	if _, err := hydropathy.ParseACCArray(m.ACCArray); err != nil {
		return fmt.Errorf("config: moment.acc_array: %w", err)
	}
	if m.MaxResidues < 1 {
		return fmt.Errorf("config: moment.max_residues must be ≥ 1, got %d", m.MaxResidues)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: server.rate_limit must be ≥ 0, got %g", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("config: server.rate_limit_burst must be ≥ 1, got %d", c.Server.RateLimitBurst)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// MinIO
	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.bucket is required when minio is enabled")
		}
	}
	if c.MinIO.RetentionDays < 0 {
		return fmt.Errorf("config: minio.retention_days must be ≥ 0, got %d", c.MinIO.RetentionDays)
	}

	// Kafka
	k := c.Kafka
	if k.Enabled && len(k.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	switch k.Acks {
	case "none", "one", "all":
	default:
		return fmt.Errorf("config: kafka.acks %q is invalid; expected none|one|all", k.Acks)
	}
	switch k.Compression {
	case "", "gzip", "snappy", "lz4", "zstd":
	default:
		return fmt.Errorf("config: kafka.compression %q is invalid; expected gzip|snappy|lz4|zstd", k.Compression)
	}
	switch k.SASLMechanism {
	case "":
	case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		if k.SASLUsername == "" || k.SASLPassword == "" {
			return fmt.Errorf("config: kafka.sasl_username and sasl_password are required for %s", k.SASLMechanism)
		}
	default:
		return fmt.Errorf("config: kafka.sasl_mechanism %q is invalid", k.SASLMechanism)
	}
	if k.MaxRetries < 0 {
		return fmt.Errorf("config: kafka.max_retries must be ≥ 0, got %d", k.MaxRetries)
	}

	// Postgres
	pg := c.Postgres
	if pg.Enabled {
		if pg.Host == "" || pg.Database == "" {
			return fmt.Errorf("config: postgres.host and postgres.database are required when postgres is enabled")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("config: postgres.port %d is out of range [1, 65535]", pg.Port)
		}
	}
	switch pg.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("config: postgres.ssl_mode %q is invalid", pg.SSLMode)
	}
	if pg.MinConns < 0 || pg.MaxConns < 1 || pg.MinConns > pg.MaxConns {
		return fmt.Errorf("config: postgres pool bounds invalid: min_conns=%d max_conns=%d", pg.MinConns, pg.MaxConns)
	}

	// Log
	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
