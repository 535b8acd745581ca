// API server entry point for hmoment.
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
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/hydromoment/internal/interfaces/http"
	"github.com/turtacn/hydromoment/internal/interfaces/http/handlers"
	"github.com/turtacn/hydromoment/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const rateLimitCleanup = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hmoment-apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to configuration file (default: HMOMENT_* environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
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

	checkers := make([]handlers.HealthChecker, 0, len(comps.Checkers))
	for _, c := range comps.Checkers {
		checkers = append(checkers, c)
	}

	momentHandler := handlers.NewMomentHandler(comps.Service, logger, cfg.Server.MaxBodySize)
	if comps.Events != nil {
		momentHandler.WithJobQueue(comps.Events)
	}

	routerCfg := httpserver.RouterConfig{
		MomentHandler: momentHandler,
		HealthHandler: handlers.NewHealthHandler(version, comps.Metrics, checkers...),
		Logger:        logger,
		Metrics:       comps.Metrics,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = comps.Collector
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		routerCfg.CORS = middleware.DefaultCORSConfig()
		routerCfg.CORS.AllowedOrigins = cfg.Server.CORSOrigins
	}
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewTokenBucketLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst, rateLimitCleanup)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}

	if *configPath != "" {
		err := config.Watch(*configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("Log level reloaded", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("Ignoring invalid config change", logging.Err(err))
		})
		if err != nil {
			logger.Warn("Config watch disabled", logging.Err(err))
		}
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)
	logger.Info("Starting hmoment API server",
		logging.String("version", version),
		logging.String("addr", srv.Addr()),
		logging.Bool("cache", cfg.Redis.Enabled),
		logging.Bool("archive", cfg.MinIO.Enabled),
		logging.Bool("jobs", cfg.Kafka.Enabled),
		logging.Bool("history", cfg.Postgres.Enabled),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// The signal context is done; shut down on a fresh one.
	return srv.Shutdown(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

//Personal.AI order the ending
