package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// RequestLogger attaches a request-scoped logger to the request context and logs
// one line per request once the handler chain has finished.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-Id", requestID)

		logger := base.With().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		if caller := strings.TrimSpace(c.GetHeader(auth.UserIDHeader)); caller != "" {
			logger = logger.With().Str("caller", caller).Logger()
		}
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	}
}

// Metrics records request counts and latencies per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// rateLimiter keeps one token bucket per caller.
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &rateLimiter{rps: rps, burst: burst}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// RateLimit rejects callers that exceed rps with 429. Callers are keyed by
// X-Sharer-User-Id, falling back to the client IP. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newRateLimiter(rps, burst)

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(auth.UserIDHeader))
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !limiter.getLimiter(key).Allow() {
			zerolog.Ctx(c.Request.Context()).Warn().Str("key", key).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
