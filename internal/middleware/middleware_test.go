package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/jwt"
	"github.com/impactbridge/platform/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	jwt.Configure("middleware-test", time.Hour)
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := redis.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func do(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, id uint, role string) map[string]string {
	t.Helper()
	token, err := jwt.Sign(id, "user", role)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthAndRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/me", Auth(), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"uid": CurrentUserID(c)}) })
	r.GET("/admin", Auth(), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/me", "", map[string]string{"Authorization": "Bearer junk"}).Code)

	w := do(r, "GET", "/me", "", bearer(t, 9, models.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":9}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "GET", "/admin", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "GET", "/admin", "", bearer(t, 9, models.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/admin", "", bearer(t, 1, models.RoleAdmin)).Code)
}

func TestOptionalAuthIgnoresBadTokens(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuth(), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"uid": CurrentUserID(c)}) })

	assert.JSONEq(t, `{"uid":0}`, do(r, "GET", "/", "", map[string]string{"Authorization": "Bearer junk"}).Body.String())
	assert.JSONEq(t, `{"uid":4}`, do(r, "GET", "/", "", bearer(t, 4, models.RoleUser)).Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := do(r, "GET", "/", "", nil)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())

	w = do(r, "GET", "/", "", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	rc := newRedis(t)
	r := gin.New()
	r.POST("/contact", RateLimit(rc, 2, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, do(r, "POST", "/contact", "", nil).Code)
	assert.Equal(t, http.StatusCreated, do(r, "POST", "/contact", "", nil).Code)
	w := do(r, "POST", "/contact", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	r := gin.New()
	r.POST("/contact", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusCreated) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, do(r, "POST", "/contact", "", nil).Code)
	}
}

func TestHTTPCacheServesAnonymousGets(t *testing.T) {
	rc := newRedis(t)
	var hits atomic.Int32
	r := gin.New()
	r.Use(HTTPCache(rc, HTTPCacheOptions{TTL: time.Minute, SkipPaths: []string{"/api/health"}}))
	r.GET("/api/faqs", func(c *gin.Context) {
		hits.Add(1)
		c.JSON(http.StatusOK, gin.H{"n": hits.Load()})
	})

	first := do(r, "GET", "/api/faqs", "", nil)
	assert.Equal(t, "miss", first.Header().Get(HeaderCache))
	second := do(r, "GET", "/api/faqs", "", nil)
	assert.Equal(t, "hit", second.Header().Get(HeaderCache))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.EqualValues(t, 1, hits.Load())

	do(r, "GET", "/api/faqs", "", bearer(t, 1, models.RoleAdmin))
	assert.EqualValues(t, 2, hits.Load())

	n, err := PurgeHTTPCache(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	do(r, "GET", "/api/faqs", "", nil)
	assert.EqualValues(t, 3, hits.Load())
}

func TestHTTPCacheSkipsErrors(t *testing.T) {
	rc := newRedis(t)
	var hits atomic.Int32
	r := gin.New()
	r.Use(HTTPCache(rc, HTTPCacheOptions{}))
	r.GET("/missing", func(c *gin.Context) {
		hits.Add(1)
		c.JSON(http.StatusNotFound, gin.H{})
	})
	do(r, "GET", "/missing", "", nil)
	do(r, "GET", "/missing", "", nil)
	assert.EqualValues(t, 2, hits.Load())
}

func TestIdempotenceRejectsRepeatSubmission(t *testing.T) {
	rc := newRedis(t)
	status := http.StatusCreated
	r := gin.New()
	r.POST("/api/contact", Idempotence(rc, time.Minute), func(c *gin.Context) { c.Status(status) })

	body := `{"name":"a","email":"a@example.org","message":"hi"}`
	assert.Equal(t, http.StatusCreated, do(r, "POST", "/api/contact", body, nil).Code)
	assert.Equal(t, http.StatusConflict, do(r, "POST", "/api/contact", body, nil).Code)
	assert.Equal(t, http.StatusCreated, do(r, "POST", "/api/contact", `{"other":1}`, nil).Code)

	status = http.StatusBadRequest
	assert.Equal(t, http.StatusBadRequest, do(r, "POST", "/api/contact", `{"x":2}`, nil).Code)
	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, do(r, "POST", "/api/contact", `{"x":2}`, nil).Code)
}

func TestIdempotenceHeaderKey(t *testing.T) {
	rc := newRedis(t)
	r := gin.New()
	r.POST("/api/donations", Idempotence(rc, time.Minute), func(c *gin.Context) { c.Status(http.StatusCreated) })

	h := map[string]string{HeaderIdempotencyKey: "k1"}
	assert.Equal(t, http.StatusCreated, do(r, "POST", "/api/donations", `{"a":1}`, h).Code)
	assert.Equal(t, http.StatusConflict, do(r, "POST", "/api/donations", `{"a":2}`, h).Code)
}
