package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/modules/auth/user"
	"github.com/impactbridge/platform/internal/pkg/jwt"
	"github.com/impactbridge/platform/internal/pkg/mail"
	"github.com/impactbridge/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	r   *gin.Engine
	s   *store.Storage
	svc *Service
	rec *mail.Recorder
	n   *mail.Notifier
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Configure("auth-test-secret", time.Hour)

	f := &fixture{s: store.NewMemory(), rec: &mail.Recorder{}}
	f.n = mail.NewNotifier(f.rec, mail.Options{SiteName: "ImpactBridge", SiteURL: "https://impact.example"}, zap.NewNop())
	f.svc = NewService(f.s, user.NewService(f.s), f.n)
	f.r = gin.New()
	NewHandler(f.svc).RegisterRoutes(f.r.Group("/api"), middleware.Auth())
	return f
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

func (f *fixture) register(t *testing.T, username, email, pw string) tokenResponse {
	t.Helper()
	w := f.do("POST", "/api/auth/register",
		`{"username":"`+username+`","email":"`+email+`","password":"`+pw+`","full_name":"Dana Donor"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	reg := f.register(t, "dana", "Dana@Example.org", "correct-horse")
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.Equal(t, "dana@example.org", reg.User.Email)
	assert.NotContains(t, f.do("GET", "/api/auth/me", "", reg.Token).Body.String(), "password")

	for _, body := range []string{
		`{"username":"dana","password":"correct-horse"}`,
		`{"username":"DANA@example.org","password":"correct-horse"}`,
		`{"email":"dana@example.org","password":"correct-horse"}`,
	} {
		w := f.do("POST", "/api/auth/login", body, "")
		require.Equal(t, http.StatusOK, w.Code, body)
		var out tokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

		claims, err := jwt.Parse(out.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, claims.UserID)
		assert.Equal(t, models.RoleUser, claims.Role)
		assert.Equal(t, "dana", claims.Username)
	}

	assert.Equal(t, http.StatusUnauthorized, f.do("POST", "/api/auth/login", `{"username":"dana","password":"wrong-pass"}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do("POST", "/api/auth/login", `{"username":"ghost","password":"whatever1"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/auth/login", `{"password":"whatever1"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/auth/login", `{"username":"dana"}`, "").Code)

	u, err := store.Repo[models.User](f.s).Get(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := setup(t)
	f.register(t, "dana", "dana@example.org", "correct-horse")

	w := f.do("POST", "/api/auth/register", `{"username":"dana","email":"other@example.org","password":"correct-horse"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "username")

	w = f.do("POST", "/api/auth/register", `{"username":"other","email":"DANA@example.org","password":"correct-horse"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email")

	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/auth/register", `{"username":"x","email":"bad","password":"short"}`, "").Code)
}

func TestMeRequiresToken(t *testing.T) {
	f := setup(t)
	assert.Equal(t, http.StatusUnauthorized, f.do("GET", "/api/auth/me", "", "").Code)
}

func TestChangePassword(t *testing.T) {
	f := setup(t)
	reg := f.register(t, "dana", "dana@example.org", "correct-horse")

	assert.Equal(t, http.StatusBadRequest,
		f.do("PUT", "/api/auth/password", `{"current_password":"nope-nope","new_password":"battery-staple"}`, reg.Token).Code)
	assert.Equal(t, http.StatusOK,
		f.do("PUT", "/api/auth/password", `{"current_password":"correct-horse","new_password":"battery-staple"}`, reg.Token).Code)

	assert.Equal(t, http.StatusUnauthorized, f.do("POST", "/api/auth/login", `{"username":"dana","password":"correct-horse"}`, "").Code)
	assert.Equal(t, http.StatusOK, f.do("POST", "/api/auth/login", `{"username":"dana","password":"battery-staple"}`, "").Code)
}

func (f *fixture) latestResetToken(t *testing.T) *models.PasswordResetToken {
	t.Helper()
	tok, err := store.Repo[models.PasswordResetToken](f.s).First(context.Background(), store.Query{}.Order("id", true))
	require.NoError(t, err)
	return tok
}

func TestForgotAndResetPassword(t *testing.T) {
	f := setup(t)
	f.register(t, "dana", "dana@example.org", "correct-horse")

	assert.Equal(t, http.StatusOK, f.do("POST", "/api/auth/forgot-password", `{"email":"nobody@example.org"}`, "").Code)
	assert.Equal(t, http.StatusOK, f.do("POST", "/api/auth/forgot-password", `{"email":"dana@example.org"}`, "").Code)
	f.n.Wait()
	require.Len(t, f.rec.Messages(), 1)

	tok := f.latestResetToken(t)
	assert.Contains(t, f.rec.SentTo("dana@example.org")[0].HTML, tok.Token)

	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/auth/reset-password", `{"token":"bogus","password":"new-password"}`, "").Code)
	assert.Equal(t, http.StatusOK, f.do("POST", "/api/auth/reset-password", `{"token":"`+tok.Token+`","password":"new-password"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/auth/reset-password", `{"token":"`+tok.Token+`","password":"another-one"}`, "").Code)
	assert.Equal(t, http.StatusOK, f.do("POST", "/api/auth/login", `{"username":"dana","password":"new-password"}`, "").Code)
}

func TestResetTokenIsSpentOnce(t *testing.T) {
	f := setup(t)
	f.register(t, "dana", "dana@example.org", "correct-horse")
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "dana@example.org"))
	tok := f.latestResetToken(t)

	const attempts = 8
	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dto := &ResetPasswordDTO{Token: tok.Token, Password: fmt.Sprintf("new-password-%d", i)}
			if err := f.svc.ResetPassword(context.Background(), dto); err == nil {
				won.Add(1)
			} else {
				assert.ErrorIs(t, err, errInvalidResetToken)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load())
	assert.NotNil(t, f.latestResetToken(t).UsedAt)
}

func TestResetTokenExpires(t *testing.T) {
	f := setup(t)
	f.register(t, "dana", "dana@example.org", "correct-horse")
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "dana@example.org"))
	tok := f.latestResetToken(t)

	f.svc.now = func() time.Time { return time.Now().Add(ResetTokenTTL + time.Minute) }
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/auth/reset-password", `{"token":"`+tok.Token+`","password":"new-password"}`, "").Code)

	n, err := f.svc.PurgeResetTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
