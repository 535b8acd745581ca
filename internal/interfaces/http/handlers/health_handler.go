package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hydromoment/pkg/types/common"
)

// HealthChecker is an interface for components that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	metrics  *prometheus.AppMetrics
	version  string
	startAt  time.Time
	timeout  time.Duration
}

// NewHealthHandler creates a new HealthHandler. metrics may be nil.
func NewHealthHandler(version string, metrics *prometheus.AppMetrics, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		metrics:  metrics,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
}

// LivenessResponse is the response for liveness probe.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Liveness handles GET /healthz. It never checks dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz. Any unreachable backend yields 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	report := common.HealthReport{
		Status:     common.Overall(components),
		Version:    h.version,
		Components: components,
	}

	code := http.StatusOK
	if report.Status != common.HealthUp {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}

// checkAll runs all health checkers concurrently, sorted by name.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	results := make([]common.ComponentHealth, 0, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := c.Check(ctx)
			ch := common.ComponentHealth{
				Name:    c.Name(),
				Status:  common.HealthUp,
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				ch.Status = common.HealthDown
				ch.Message = err.Error()
			}
			if h.metrics != nil {
				h.metrics.SetHealth(c.Name(), err == nil)
			}

			mu.Lock()
			results = append(results, ch)
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

//Personal.AI order the ending
