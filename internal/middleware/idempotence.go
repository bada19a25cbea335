package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/redis"
	"github.com/impactbridge/platform/internal/pkg/response"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	idempotencePrefix    = "ib:idempotence:"
	maxFingerprintBody   = 64 << 10
)

// Idempotence rejects a repeat of the same form submission within ttl: the
// Idempotency-Key header, or a hash of method, path, body and client, keys it.
// A failed first attempt releases the key so the client may retry.
func Idempotence(rc *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		key, err := fingerprint(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := idempotencePrefix + key
		fresh, err := rc.SetNX(ctx, redisKey, "0", ttl)
		if err != nil {
			c.Next()
			return
		}
		if !fresh {
			msg := "this submission was already received"
			if v, _ := rc.Get(ctx, redisKey); v == "0" {
				msg = "this submission is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			_ = rc.Replace(ctx, redisKey, "1")
		} else {
			_ = rc.Del(ctx, redisKey)
		}
	}
}

func fingerprint(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(HeaderIdempotencyKey); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFingerprintBody))
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
	if len(body) == 0 {
		return "", nil
	}

	h := sha256.New()
	for _, part := range []string{c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Request.UserAgent(), NormalizeToken(c.GetHeader("Authorization"))} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}
