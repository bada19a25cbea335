package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/redis"
	"github.com/impactbridge/platform/internal/store"
)

const pingTimeout = 2 * time.Second

// RegisterRoutes mounts GET /health. rc may be nil.
func RegisterRoutes(rg *gin.RouterGroup, s *store.Storage, rc *redis.Client) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if err := s.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		body := gin.H{
			"status":  status,
			"storage": s.Kind(),
			"time":    time.Now().UTC(),
		}
		if rc != nil {
			body["redis"] = rc.Ping(ctx) == nil
		}
		c.JSON(code, body)
	})
}
