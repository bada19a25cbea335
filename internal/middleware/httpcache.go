package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/redis"
)

const (
	APICachePrefix          = "ib:api-cache:"
	HeaderCache             = "X-Cache"
	defaultHTTPCacheTTL     = time.Minute
	defaultHTTPCacheMaxBody = 1 << 20 // 1 MiB
)

type HTTPCacheOptions struct {
	TTL          time.Duration
	SkipPaths    []string
	MaxBodyBytes int
}

type cachedHTTPResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow || len(data) == 0 {
		return
	}
	if len(w.body)+len(data) > w.maxBodyBytes {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

func normalizeHTTPCacheOptions(opts HTTPCacheOptions) HTTPCacheOptions {
	if opts.TTL <= 0 {
		opts.TTL = defaultHTTPCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultHTTPCacheMaxBody
	}
	return opts
}

// HTTPCache serves anonymous GET responses from Redis for opts.TTL. Requests
// carrying a bearer token are never cached.
func HTTPCache(rc *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	options := normalizeHTTPCacheOptions(opts)
	return func(c *gin.Context) {
		if rc == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		if shouldSkipCachePath(c.Request.URL.Path, options.SkipPaths) || c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := APICachePrefix + c.Request.URL.RequestURI()
		if payload, ok := readCachedResponse(ctx, rc, cacheKey); ok {
			c.Header(HeaderCache, "hit")
			c.Data(payload.Status, payload.ContentType, payload.body)
			c.Abort()
			return
		}

		buffer := &cacheBodyWriter{ResponseWriter: c.Writer, maxBodyBytes: options.MaxBodyBytes}
		c.Writer = buffer
		c.Header(HeaderCache, "miss")
		c.Next()

		status := c.Writer.Status()
		if !isCacheableResponse(status, c.Writer.Header()) || buffer.overflow || len(buffer.body) == 0 {
			return
		}
		raw, err := json.Marshal(cachedHTTPResponse{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			BodyBase64:  base64.StdEncoding.EncodeToString(buffer.body),
		})
		if err != nil {
			return
		}
		_ = rc.Set(ctx, cacheKey, raw, options.TTL)
	}
}

// PurgeHTTPCache drops every cached response and returns how many were removed.
func PurgeHTTPCache(ctx context.Context, rc *redis.Client) (int, error) {
	if rc == nil {
		return 0, nil
	}
	return rc.DeletePattern(ctx, APICachePrefix+"*")
}

type cachedPayload struct {
	cachedHTTPResponse
	body []byte
}

func readCachedResponse(ctx context.Context, rc *redis.Client, key string) (cachedPayload, bool) {
	raw, err := rc.Get(ctx, key)
	if err != nil || raw == "" {
		return cachedPayload{}, false
	}
	var p cachedPayload
	if err := json.Unmarshal([]byte(raw), &p.cachedHTTPResponse); err != nil {
		return cachedPayload{}, false
	}
	body, err := base64.StdEncoding.DecodeString(p.BodyBase64)
	if err != nil || p.Status <= 0 {
		return cachedPayload{}, false
	}
	p.body = body
	return p, true
}

func shouldSkipCachePath(path string, skip []string) bool {
	for _, p := range skip {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(p, "*")) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func isCacheableResponse(status int, headers http.Header) bool {
	if status != http.StatusOK {
		return false
	}
	cacheControl := strings.ToLower(headers.Get("Cache-Control"))
	return !strings.Contains(cacheControl, "no-cache") &&
		!strings.Contains(cacheControl, "no-store") &&
		!strings.Contains(cacheControl, "private")
}

// CacheControl sets a public max-age on successful responses.
func CacheControl(ttl time.Duration) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(int(ttl/time.Second))
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Header("Cache-Control", value)
		}
		c.Next()
	}
}
