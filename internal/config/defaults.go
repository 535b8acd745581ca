package config

import (
	"math"
	"runtime"
	"time"

	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultDistanceMode = "truncated"
	DefaultMaxResidues  = 20000

	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize           = 8 << 20

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "hmoment:"

	DefaultMinIOEndpoint      = "localhost:9000"
	DefaultMinIOBucket        = "hmoment-reports"
	DefaultMinIORegion        = "us-east-1"
	DefaultMinIOPresignExpiry = time.Hour

	DefaultKafkaBroker          = "localhost:9092"
	DefaultKafkaClientID        = "hmoment"
	DefaultKafkaRequestTopic    = "hmoment.moment.requested"
	DefaultKafkaEventTopic      = "hmoment.moment.completed"
	DefaultKafkaDeadLetterTopic = "hmoment.dead_letter"
	DefaultKafkaGroupID         = "hmoment-worker"
	DefaultKafkaAcks            = "one"
	DefaultKafkaMaxRetries      = 3

	DefaultPostgresHost             = "localhost"
	DefaultPostgresPort             = 5432
	DefaultPostgresDatabase         = "hmoment"
	DefaultPostgresUsername         = "hmoment"
	DefaultPostgresSSLMode          = "disable"
	DefaultPostgresMaxConns         = 10
	DefaultPostgresMinConns         = 1
	DefaultPostgresMaxConnLifetime  = 30 * time.Minute
	DefaultPostgresMaxConnIdleTime  = 5 * time.Minute
	DefaultPostgresStatementTimeout = 30 * time.Second

	DefaultMetricsNamespace = "hmoment"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultWorkers is the number of centres computed concurrently when unset.
var DefaultWorkers = runtime.NumCPU()

// ApplyDefaults fills zero-value fields in cfg.  Explicitly set values are
// left unchanged.  Boolean switches (redis.enabled, minio.enabled,
// kafka.enabled, postgres.enabled, metrics.enabled) have no default other
// than false.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Moment ────────────────────────────────────────────────────────────────
	if cfg.Moment.Radius == 0 {
		cfg.Moment.Radius = hydropathy.DefaultRadius
	}
	if cfg.Moment.RadiusMin == 0 {
		cfg.Moment.RadiusMin = hydropathy.MinRadius
	}
	if cfg.Moment.RadiusMax == 0 {
		cfg.Moment.RadiusMax = hydropathy.MaxRadius
	}
	if cfg.Moment.Scale == "" {
		cfg.Moment.Scale = hydropathy.DefaultScaleName
	}
	if cfg.Moment.DistanceMode == "" {
		cfg.Moment.DistanceMode = DefaultDistanceMode
	}
	if cfg.Moment.Workers == 0 {
		cfg.Moment.Workers = DefaultWorkers
	}
	if cfg.Moment.RSAThreshold == 0 {
		cfg.Moment.RSAThreshold = hydropathy.DefaultRSAThreshold
	}
	if cfg.Moment.ACCArray == "" {
		cfg.Moment.ACCArray = string(hydropathy.ACCSander)
	}
	if cfg.Moment.MaxResidues == 0 {
		cfg.Moment.MaxResidues = DefaultMaxResidues
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = int(math.Ceil(2 * cfg.Server.RateLimit))
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultMinIOPresignExpiry
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultKafkaRequestTopic
	}
	if cfg.Kafka.EventTopic == "" {
		cfg.Kafka.EventTopic = DefaultKafkaEventTopic
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultKafkaDeadLetterTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.Acks == "" {
		cfg.Kafka.Acks = DefaultKafkaAcks
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}
	if cfg.Kafka.ReplicationFactor == 0 {
		cfg.Kafka.ReplicationFactor = 1
	}

	// ── Postgres ──────────────────────────────────────────────────────────────
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = DefaultPostgresHost
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Postgres.Database == "" {
		cfg.Postgres.Database = DefaultPostgresDatabase
	}
	if cfg.Postgres.Username == "" {
		cfg.Postgres.Username = DefaultPostgresUsername
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = DefaultPostgresMaxConns
	}
	if cfg.Postgres.MinConns == 0 {
		cfg.Postgres.MinConns = DefaultPostgresMinConns
	}
	if cfg.Postgres.MaxConnLifetime == 0 {
		cfg.Postgres.MaxConnLifetime = DefaultPostgresMaxConnLifetime
	}
	if cfg.Postgres.MaxConnIdleTime == 0 {
		cfg.Postgres.MaxConnIdleTime = DefaultPostgresMaxConnIdleTime
	}
	if cfg.Postgres.StatementTimeout == 0 {
		cfg.Postgres.StatementTimeout = DefaultPostgresStatementTimeout
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
