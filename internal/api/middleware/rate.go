package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/etlbench/internal/infrastructure/config"
)

// clientTTL is how long an idle client's limiter is kept.
const clientTTL = 10 * time.Minute

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// FromConfig converts the application's per-IP limit settings.
func FromConfig(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}
}

// GlobalFromConfig converts the application's global limit settings.
func GlobalFromConfig(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: cfg.GlobalRequestsPerSecond,
		Burst:             cfg.GlobalBurst,
	}
}

// RateLimit creates a per-IP rate limiting middleware. Idle clients are
// swept lazily on later requests.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*client)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > clientTTL {
			for k, cl := range clients {
				if now.Sub(cl.lastSeen) > clientTTL {
					delete(clients, k)
				}
			}
			lastSweep = now
		}
		cl, exists := clients[ip]
		if !exists {
			cl = &client{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		limiter := cl.limiter
		mu.Unlock()

		if !limiter.Allow() {
			tooMany(c)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			tooMany(c)
			return
		}
		c.Next()
	}
}

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
	})
}
