// Package ratelimit provides a per-client request throttle backed by Redis.
// The limiter fails open: if Redis is unreachable the request proceeds and
// the failure is logged, so a cache outage never takes the API down.
package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"assistant-platform/pkg/logger"
	"assistant-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// New returns a limiter allowing limit requests per window per client IP.
// A nil client or non-positive limit disables throttling entirely.
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.rdb != nil && l.limit > 0 && l.window > 0
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	if !l.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		allowed, err := utils.AllowFixedWindow(c.Request.Context(), l.rdb, key, l.limit, l.window)
		if err != nil {
			logger.FromGin(c).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":    "error",
				"message":   "too many requests",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}
