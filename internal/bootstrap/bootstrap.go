// Package bootstrap assembles the moment service and its optional backends
// (Redis result cache, MinIO report archive, Kafka events, Postgres run
// history, Prometheus metrics) from a loaded configuration. The CLI, the API server and the
// worker all start here.
package bootstrap

import (
	"context"
	stderrors "errors"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/database/postgres"
	"github.com/turtacn/hydromoment/internal/infrastructure/database/redis"
	"github.com/turtacn/hydromoment/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hydromoment/internal/infrastructure/storage/minio"
)

// HealthChecker reports the reachability of one backend.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// Components holds everything built from a Config. Close releases the
// backend connections in reverse order of creation.
type Components struct {
	Config    *config.Config
	Logger    logging.Logger
	Service   moments.Service
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Checkers  []HealthChecker
	// Events is nil unless kafka is enabled.
	Events *kafka.EventPublisher

	closers []func() error
}

// Build wires the service. Disabled backends are skipped; an enabled backend
// that cannot be reached fails the build.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Components{Config: cfg, Logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            cfg.Metrics.Subsystem,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		c.Collector = collector
	} else {
		c.Collector = prometheus.NewNoopCollector()
	}
	c.Metrics = prometheus.NewAppMetrics(c.Collector)

	opts := []moments.Option{moments.WithMetrics(c.Metrics)}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&redis.RedisConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger.Named("redis"))
		if err != nil {
			c.Metrics.SetHealth("redis", false)
			_ = c.Close()
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		cache := redis.NewRedisCache(client, logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL),
		)
		opts = append(opts, moments.WithCache(cache, cfg.Redis.DefaultTTL))
		c.Checkers = append(c.Checkers, redisChecker{client: client})
		c.Metrics.SetHealth("redis", true)
	}

	if cfg.MinIO.Enabled {
		client, err := minio.NewMinIOClient(&minio.MinIOConfig{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKey,
			SecretAccessKey: cfg.MinIO.SecretKey,
			UseSSL:          cfg.MinIO.UseSSL,
			Region:          cfg.MinIO.Region,
			Bucket:          cfg.MinIO.Bucket,
			PresignExpiry:   cfg.MinIO.PresignExpiry,
			RetentionDays:   cfg.MinIO.RetentionDays,
		}, logger.Named("minio"))
		if err != nil {
			c.Metrics.SetHealth("minio", false)
			_ = c.Close()
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		opts = append(opts, moments.WithArchive(minio.NewReportArchive(client, logger.Named("archive"))))
		c.Checkers = append(c.Checkers, minioChecker{client: client})
		c.Metrics.SetHealth("minio", true)
	}

	if cfg.Kafka.Enabled {
		k := cfg.Kafka
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:          k.Brokers,
			ClientID:         k.ClientID,
			Acks:             k.Acks,
			MaxRetries:       k.MaxRetries,
			CompressionCodec: k.Compression,
			SASLMechanism:    k.SASLMechanism,
			SASLUsername:     k.SASLUsername,
			SASLPassword:     k.SASLPassword,
		}, logger.Named("kafka"))
		if err == nil {
			err = producer.Ping(ctx)
			if err != nil {
				_ = producer.Close()
			}
		}
		if err != nil {
			c.Metrics.SetHealth("kafka", false)
			_ = c.Close()
			return nil, err
		}
		c.closers = append(c.closers, producer.Close)
		c.Events = kafka.NewEventPublisher(producer, k.ClientID, k.RequestTopic, k.EventTopic)
		opts = append(opts, moments.WithEvents(c.Events))
		c.Checkers = append(c.Checkers, kafkaChecker{producer: producer})
		c.Metrics.SetHealth("kafka", true)
	}

	if cfg.Postgres.Enabled {
		if !cfg.Postgres.SkipMigrations {
			if err := runMigrations(cfg.Postgres, logger.Named("migrate")); err != nil {
				c.Metrics.SetHealth("postgres", false)
				_ = c.Close()
				return nil, err
			}
		}
		conn, err := newPostgres(ctx, cfg.Postgres, logger.Named("postgres"))
		if err != nil {
			c.Metrics.SetHealth("postgres", false)
			_ = c.Close()
			return nil, err
		}
		c.closers = append(c.closers, func() error { conn.Close(); return nil })
		opts = append(opts, moments.WithRunStore(postgres.NewRunStore(conn.Pool(), logger.Named("runs"))))
		c.Checkers = append(c.Checkers, postgresChecker{conn: conn})
		c.Metrics.SetHealth("postgres", true)
	}

	c.Service = moments.NewService(cfg.Moment, logger, opts...)

	logger.Debug("Components built",
		logging.Bool("cache", cfg.Redis.Enabled),
		logging.Bool("archive", cfg.MinIO.Enabled),
		logging.Bool("events", cfg.Kafka.Enabled),
		logging.Bool("history", cfg.Postgres.Enabled),
		logging.Bool("metrics", cfg.Metrics.Enabled),
	)
	return c, nil
}

// Replaced in tests.
var (
	runMigrations = postgres.RunMigrations
	newPostgres   = postgres.NewConnection
)

// Close releases backend connections. It is safe to call more than once.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return stderrors.Join(errs...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health adapters
// ─────────────────────────────────────────────────────────────────────────────

type redisChecker struct {
	client *redis.Client
}

func (redisChecker) Name() string { return "redis" }

func (a redisChecker) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

type minioChecker struct {
	client *minio.MinIOClient
}

func (minioChecker) Name() string { return "minio" }

func (a minioChecker) Check(ctx context.Context) error {
	_, err := a.client.HealthCheck(ctx)
	return err
}

type kafkaChecker struct {
	producer *kafka.Producer
}

func (kafkaChecker) Name() string { return "kafka" }

func (a kafkaChecker) Check(ctx context.Context) error {
	return a.producer.Ping(ctx)
}

type postgresChecker struct {
	conn *postgres.Connection
}

func (postgresChecker) Name() string { return "postgres" }

func (a postgresChecker) Check(ctx context.Context) error {
	return a.conn.HealthCheck(ctx)
}

//Personal.AI order the ending
