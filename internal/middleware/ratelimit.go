package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/redis"
	"github.com/impactbridge/platform/internal/pkg/response"
	"go.uber.org/zap"
)

const rateLimitPrefix = "ib:rate_limit:"

// RateLimit allows limit requests per client IP and route in each fixed
// window. It is a no-op without Redis, and fails open on Redis errors.
func RateLimit(rc *redis.Client, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s%s:%s:%s", rateLimitPrefix, c.Request.Method, c.FullPath(), ip)
		count, ttl, err := rc.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			retry := int(ttl.Round(time.Second) / time.Second)
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
