// Worker entry point for hmoment: consumes queued compute jobs from Kafka,
// runs them, archives the reports and records the run history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/hydromoment/internal/bootstrap"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/hydromoment/internal/interfaces/http"
	"github.com/turtacn/hydromoment/internal/interfaces/http/handlers"
	"github.com/turtacn/hydromoment/internal/interfaces/worker"
)

// Build-time variables injected via ldflags.
var version = "dev"

const defaultHealthPort = 8081

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hmoment-worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to configuration file (default: HMOMENT_* environment only)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and metrics")
	jobTimeout := flag.Duration("job-timeout", worker.DefaultJobTimeout, "maximum duration of one job")
	ensureTopics := flag.Bool("ensure-topics", false, "create missing topics before consuming")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka.enabled must be true for the worker")
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logger.Error("Failed to close backends", logging.Err(err))
		}
	}()

	k := cfg.Kafka
	if *ensureTopics {
		tm, err := kafka.NewTopicManager(ctx, k.Brokers, logger.Named("topics"))
		if err != nil {
			return err
		}
		err = tm.EnsureTopics(kafka.DefaultTopics(k.RequestTopic, k.EventTopic, k.DeadLetterTopic, k.ReplicationFactor))
		_ = tm.Close()
		if err != nil {
			return err
		}
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       k.Brokers,
		GroupID:       k.GroupID,
		Topics:        []string{k.RequestTopic},
		ClientID:      k.ClientID,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      k.MaxRetries,
			RetryBackoff:    time.Second,
			MaxRetryBackoff: 30 * time.Second,
			DeadLetterTopic: k.DeadLetterTopic,
		},
	}, logger.Named("consumer"))
	if err != nil {
		return err
	}
	defer consumer.Close()

	consumer.Subscribe(k.RequestTopic, worker.NewJobHandler(comps.Service, logger, *jobTimeout).Handle)

	checkers := make([]handlers.HealthChecker, 0, len(comps.Checkers))
	for _, c := range comps.Checkers {
		checkers = append(checkers, c)
	}
	routerCfg := httpserver.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(version, comps.Metrics, checkers...),
		Logger:        logger,
		Metrics:       comps.Metrics,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = comps.Collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	serverCfg := cfg.Server
	serverCfg.Port = *healthPort
	srv := httpserver.NewServer(serverCfg, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("Starting hmoment worker",
		logging.String("version", version),
		logging.String("topic", k.RequestTopic),
		logging.String("group", k.GroupID),
		logging.String("health_addr", srv.Addr()),
		logging.Bool("archive", cfg.MinIO.Enabled),
		logging.Bool("history", cfg.Postgres.Enabled),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down worker",
		logging.Int64("processed", consumer.Processed()),
		logging.Int64("failed", consumer.Failed()))
	if err := consumer.Close(); err != nil {
		logger.Warn("Consumer close failed", logging.Err(err))
	}
	return srv.Shutdown(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

//Personal.AI order the ending
