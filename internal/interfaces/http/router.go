package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hydromoment/internal/interfaces/http/handlers"
	"github.com/turtacn/hydromoment/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	MomentHandler *handlers.MomentHandler
	HealthHandler *handlers.HealthHandler

	// CORS is applied when it lists at least one origin.
	CORS middleware.CORSConfig
	// RateLimiter, when set, limits /api/v1 per client IP.
	RateLimiter middleware.RateLimiter

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// NewRouter builds the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.EchoRequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORS))
	}
	logCfg := middleware.DefaultLoggingConfig()
	logCfg.Metrics = cfg.Metrics
	r.Use(middleware.RequestLogging(logger.Named("access"), logCfg))

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(middleware.RateLimit(cfg.RateLimiter, middleware.ClientIP))
		}
		registerMomentRoutes(api, cfg.MomentHandler)
	})

	return r
}

func registerMomentRoutes(r chi.Router, h *handlers.MomentHandler) {
	if h == nil {
		return
	}
	r.Post("/moments", h.Compute)
	r.Post("/jobs", h.SubmitJob)
	r.Post("/classify", h.Classify)
	r.Get("/scales", h.ListScales)

	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/", h.ListReports)
		rr.Route("/{runID}", func(item chi.Router) {
			item.Get("/", h.GetReport)
			item.Get("/url", h.ReportURL)
		})
	})

	r.Route("/runs", func(rr chi.Router) {
		rr.Get("/", h.ListRuns)
		rr.Get("/{runID}", h.GetRun)
	})
}

//Personal.AI order the ending
