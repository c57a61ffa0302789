package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/restockr/auth-service/internal/constants"
	"github.com/restockr/auth-service/pkg/logger"
)

// RateLimiter tracks request timestamps per client IP over a sliding window.
type RateLimiter struct {
	hits       map[string][]time.Time
	maxRequest int
	window     time.Duration
	lastSweep  time.Time
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:       make(map[string][]time.Time),
		maxRequest: maxRequest,
		window:     window,
		lastSweep:  time.Now(),
	}
}

// Allow records a hit for ip and reports whether it stays within the window
// budget. The second return value is how many requests remain.
func (rl *RateLimiter) Allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.window {
		rl.sweep(now)
	}

	hits := pruneOld(rl.hits[ip], now, rl.window)
	if len(hits) >= rl.maxRequest {
		rl.hits[ip] = hits
		return false, 0
	}

	rl.hits[ip] = append(hits, now)
	return true, rl.maxRequest - len(hits) - 1
}

// sweep drops idle IPs so the map does not grow with every client ever seen.
// Callers must hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, hits := range rl.hits {
		valid := pruneOld(hits, now, rl.window)
		if len(valid) > 0 {
			rl.hits[ip] = valid
		} else {
			delete(rl.hits, ip)
		}
	}
	rl.lastSweep = now
}

func pruneOld(hits []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	for i, t := range hits {
		if t.After(cutoff) {
			return hits[i:]
		}
	}
	return nil
}

// RateLimit rejects clients that exceed maxRequest requests per window with
// 429. Mounted once globally and again with a tighter budget on the
// credential endpoints.
func RateLimit(maxRequest int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(maxRequest, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		allowed, remaining := limiter.Allow(ip, now)
		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("user_agent", c.GetHeader(constants.HeaderUserAgent)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("window", window),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, constants.BuildErrorResponse(
				"Too many requests",
				fmt.Sprintf("rate limit exceeded, retry in %d seconds", int(window.Seconds())),
			))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(window).Unix()))

		c.Next()
	}
}
