package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state reported in response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter is an in-memory per-key token bucket. Idle buckets are
// evicted every cleanup interval.
type TokenBucketLimiter struct {
	rate  float64
	burst int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*tokenBucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewTokenBucketLimiter allows rate requests per second with bursts of up
// to burst. A positive cleanup starts the eviction loop; call Stop to end it.
func NewTokenBucketLimiter(rate float64, burst int, cleanup time.Duration) *TokenBucketLimiter {
	l := &TokenBucketLimiter{
		rate:    rate,
		burst:   burst,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	if cleanup > 0 {
		go l.cleanupLoop(cleanup)
	}
	return l
}

// Allow takes one token from key's bucket.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burst), lastRefill: now}
		l.buckets[key] = b
	}
	b.tokens = math.Min(float64(l.burst), b.tokens+now.Sub(b.lastRefill).Seconds()*l.rate)
	b.lastRefill = now

	info := RateLimitInfo{Limit: l.burst}
	if b.tokens >= 1 {
		b.tokens--
		info.Remaining = int(b.tokens)
		info.ResetAt = now
		return true, info
	}
	wait := time.Duration((1 - b.tokens) / l.rate * float64(time.Second))
	info.ResetAt = now.Add(wait)
	return false, info
}

func (l *TokenBucketLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle(every)
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets untouched for longer than idle.
func (l *TokenBucketLimiter) evictIdle(idle time.Duration) {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *TokenBucketLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// BucketCount returns the number of tracked keys.
func (l *TokenBucketLimiter) BucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ClientIP keys requests by remote host. Place chi's RealIP middleware
// first when running behind a proxy.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit rejects requests over the limit with 429 and Retry-After.
// Paths in skip bypass the limiter.
func RateLimit(limiter RateLimiter, keyFunc func(*http.Request) string, skip ...string) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	skipSet := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipSet[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipSet[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			allowed, info := limiter.Allow(keyFunc(r))
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			retry := int(math.Ceil(time.Until(info.ResetAt).Seconds()))
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(common.NewErrorResponse(errors.ErrCodeRateLimited.String(),
				errors.DefaultMessageForCode(errors.ErrCodeRateLimited)))
		})
	}
}

//Personal.AI order the ending
