package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hydromoment/internal/interfaces/http/handlers"
	"github.com/turtacn/hydromoment/internal/interfaces/http/middleware"
	"github.com/turtacn/hydromoment/pkg/types/common"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

type downChecker struct{}

func (downChecker) Name() string                  { return "redis" }
func (downChecker) Check(_ context.Context) error { return io.ErrUnexpectedEOF }

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) (http.Handler, prometheus.MetricsCollector) {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "router_test"}, logging.NewNopLogger())
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	svc := moments.NewService(config.NewDefaultConfig().Moment, nil, moments.WithMetrics(metrics))
	cfg := RouterConfig{
		MomentHandler:    handlers.NewMomentHandler(svc, nil, 0),
		HealthHandler:    handlers.NewHealthHandler("test", metrics),
		Metrics:          metrics,
		MetricsCollector: collector,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewRouter(cfg), collector
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	tests := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/v1/moments", `{"coordinates": {"ALA1": [0, 0, 0]}}`, http.StatusOK},
		{http.MethodPost, "/api/v1/jobs", `{"coordinates": {"ALA1": [0, 0, 0]}}`, http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/classify", `{"value": 1}`, http.StatusOK},
		{http.MethodGet, "/api/v1/scales", "", http.StatusOK},
		{http.MethodGet, "/api/v1/reports", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/reports/0b6a4c4e-6f0c-4a3c-8f0e-1a2b3c4d5e6f", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/reports/0b6a4c4e-6f0c-4a3c-8f0e-1a2b3c4d5e6f/url", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/runs", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/runs/0b6a4c4e-6f0c-4a3c-8f0e-1a2b3c4d5e6f", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/moments", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v2/scales", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestNewRouter_RequestIDInEnvelope(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/scales", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	var resp common.APIResponse[htypes.ScaleList]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.RequestID)
	assert.True(t, resp.Success)
}

func TestNewRouter_MetricsRecorded(t *testing.T) {
	router, collector := newTestRouter(t, nil)
	serve(router, http.MethodPost, "/api/v1/moments", `{"coordinates": {"ALA1": [0, 0, 0], "GLY2": [3, 0, 0]}}`)
	serve(router, http.MethodGet, "/api/v1/reports/some-run", "")

	body := serve(collector.Handler(), http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `router_test_moment_runs_total{scale="Kyte_Doolitle",status="success"} 1`)
	assert.Contains(t, body, `route="/api/v1/moments"`)
	assert.Contains(t, body, `route="/api/v1/reports/{runID}`)
	assert.NotContains(t, body, "some-run")
}

func TestNewRouter_ReadinessReportsDownBackend(t *testing.T) {
	router, collector := newTestRouter(t, func(c *RouterConfig) {
		c.HealthHandler = handlers.NewHealthHandler("test", c.Metrics, downChecker{})
	})
	rec := serve(router, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := serve(collector.Handler(), http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `router_test_health_check_status{dependency="redis"} 0`)
}

func TestNewRouter_RateLimitOnlyAPI(t *testing.T) {
	limiter := middleware.NewTokenBucketLimiter(0.001, 1, 0)
	router, _ := newTestRouter(t, func(c *RouterConfig) { c.RateLimiter = limiter })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/scales", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/api/v1/scales", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/healthz", "").Code)
}

func TestNewRouter_CORS(t *testing.T) {
	router, _ := newTestRouter(t, func(c *RouterConfig) {
		c.CORS = middleware.DefaultCORSConfig()
		c.CORS.AllowedOrigins = []string{"https://viewer.example.org"}
	})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/moments", nil)
	req.Header.Set("Origin", "https://viewer.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://viewer.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_NilHandlers(t *testing.T) {
	router := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/scales", "").Code)
}

//Personal.AI order the ending
