package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true}, nil)
	require.NoError(t, err)
	// Process metrics are only populated on platforms with procfs.
	assert.NotPanics(t, func() { scrapeMetrics(t, c) })
}

func TestNewMetricsCollector_WithGoMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("runs_total", "Runs", "scale").WithLabelValues("Janin").Add(5)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_runs_total{scale="Janin"} 5`)
}

func TestRegisterCounter_DuplicateSharesFamily(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_total 2")
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("in_flight", "In flight")
	g.WithLabelValues().Set(10)
	g.WithLabelValues().Dec()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_in_flight 9")
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("latency", "Latency", nil).WithLabelValues().Observe(0.1)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_latency_bucket")
	assert.Contains(t, out, "test_unit_latency_count 1")
}

func TestRegister_TypeConflictReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	gauge := c.RegisterGauge("conflict", "help")
	assert.NotPanics(t, func() { gauge.WithLabelValues().Set(10) })
	assert.Contains(t, scrapeMetrics(t, c), "# TYPE test_unit_conflict counter")
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_concurrent_total{id="1"} 50`)
}

func TestNoopCollector(t *testing.T) {
	c := NewNoopCollector()
	assert.NotPanics(t, func() {
		c.RegisterCounter("a", "h", "l").WithLabelValues("x").Inc()
		c.RegisterGauge("b", "h").WithLabelValues().Set(1)
		c.RegisterHistogram("c", "h", nil).WithLabelValues().Observe(1)
	})
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

//Personal.AI order the ending
