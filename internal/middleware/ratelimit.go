package middleware

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ecobin-telemetry/internal/config"
	"ecobin-telemetry/internal/logger"
	appErrors "ecobin-telemetry/pkg/errors"
	"ecobin-telemetry/pkg/utils"
)

// FixedWindowLimiter admits up to max requests per key within a fixed
// window. Keyless requests fall into one shared fallback bucket: every
// caller that omits the routing key competes for the same quota. That is
// deliberate, inherited behavior, not an accident.
type FixedWindowLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*windowCounter
	window      time.Duration
	max         int
	fallbackKey string
}

type windowCounter struct {
	windowStart time.Time
	count       int
}

func NewFixedWindowLimiter(window time.Duration, max int, fallbackKey string) *FixedWindowLimiter {
	l := &FixedWindowLimiter{
		buckets:     make(map[string]*windowCounter),
		window:      window,
		max:         max,
		fallbackKey: fallbackKey,
	}

	go l.cleanup()

	return l
}

// Admit decides whether a request for key may proceed at time now. When
// rejected, the second return value is the number of seconds until the
// key's window resets, always at least 1.
func (l *FixedWindowLimiter) Admit(key string, now time.Time) (bool, int) {
	if key == "" {
		key = l.fallbackKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists || now.Sub(b.windowStart) >= l.window {
		l.buckets[key] = &windowCounter{windowStart: now, count: 1}
		return true, 0
	}

	if b.count < l.max {
		b.count++
		return true, 0
	}

	retryAfter := int(math.Ceil((l.window - now.Sub(b.windowStart)).Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter
}

// cleanup drops buckets whose window has long expired to keep the map
// from growing with one-off bin codes.
func (l *FixedWindowLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for key, b := range l.buckets {
			if now.Sub(b.windowStart) >= l.window {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// IngestRateLimitMiddleware applies the per-bin fixed window to the
// ingest route, keyed by the bin_code query parameter.
func IngestRateLimitMiddleware(cfg *config.IngestConfig) gin.HandlerFunc {
	limiter := NewFixedWindowLimiter(cfg.Window(), cfg.MaxPerWindow, cfg.FallbackKey)

	return func(c *gin.Context) {
		key := c.Query("bin_code")

		allowed, retryAfter := limiter.Admit(key, time.Now())
		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("request_id", GetRequestID(c)),
				zap.String("bin_code", key),
			)

			_ = c.Error(appErrors.ErrTooManyRequests)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests",
				"retryAfter": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// generalLimiter holds per-IP token buckets for the service-wide limit.
type generalLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newGeneralLimiter(rps float64, burst int) *generalLimiter {
	return &generalLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (gl *generalLimiter) getLimiter(ip string) *rate.Limiter {
	gl.mu.RLock()
	limiter, exists := gl.limiters[ip]
	gl.mu.RUnlock()

	if exists {
		return limiter
	}

	gl.mu.Lock()
	defer gl.mu.Unlock()

	limiter, exists = gl.limiters[ip]
	if exists {
		return limiter
	}

	limiter = rate.NewLimiter(gl.rate, gl.burst)
	gl.limiters[ip] = limiter
	return limiter
}

// RateLimitMiddleware is the coarse per-IP limit applied in front of
// every route, separate from the per-bin ingest window.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := newGeneralLimiter(rps, burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.getLimiter(ip).Allow() {
			logger.Warn("General rate limit exceeded",
				zap.String("request_id", GetRequestID(c)),
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)

			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
