package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"intervue/internal/errors"

	"golang.org/x/time/rate"
)

// Idle buckets older than this are evicted by the background sweep.
const limiterEvictionAge = 10 * time.Minute

// RateLimiter keeps one token bucket per caller key, "api:<key>" or
// "ip:<addr>". Buckets for callers that go quiet are swept periodically
// so the map does not grow without bound.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
	done     chan struct{}
	logger   *errors.Logger
}

// NewRateLimiter builds a limiter allowing requestsPerMin sustained
// requests with bursts up to burstCapacity, and starts the sweep loop.
func NewRateLimiter(requestsPerMin, burstCapacity int, logger *errors.Logger) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burstCapacity,
		done:     make(chan struct{}),
		logger:   logger,
	}
	go rl.sweepLoop()
	return rl
}

// Allow reports whether a request under key may proceed, creating the
// key's bucket on first sight. Non-blocking.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rl.limit, rl.burst)
		rl.buckets[key] = bucket
	}
	rl.lastSeen[key] = time.Now()
	rl.mu.Unlock()

	return bucket.Allow()
}

// GetStats returns the limiter state reported by the stats endpoint.
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]any{
		"active_limiters": len(rl.buckets),
		"rate_per_second": float64(rl.limit),
		"rate_per_minute": float64(rl.limit) * 60.0,
		"burst_capacity":  rl.burst,
	}
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(limiterEvictionAge)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(limiterEvictionAge)
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) sweep(age time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-age)
	for key, seen := range rl.lastSeen {
		if seen.Before(cutoff) {
			delete(rl.buckets, key)
			delete(rl.lastSeen, key)
		}
	}

	if rl.logger != nil {
		rl.logger.Debug("Rate limiter sweep completed",
			"remaining_limiters", len(rl.buckets))
	}
}

// Close stops the sweep goroutine.
func (rl *RateLimiter) Close() {
	close(rl.done)
}

// rateLimitMiddleware rejects requests over the configured rate with 429.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// rateLimitKey picks the bucket key for a request. API-key buckets win
// over IP buckets when both are enabled; an empty key skips limiting.
func rateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}

	if byIP {
		return "ip:" + getClientIP(r)
	}

	return ""
}

// getClientIP resolves the caller address, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for ip := range strings.SplitSeq(xff, ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
