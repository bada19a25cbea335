package feedback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, *store.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := store.NewMemory()
	r := gin.New()
	NewHandler(NewService(s)).RegisterRoutes(r.Group("/api"))
	return r, s
}

func post(r http.Handler, path, body string) int {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestFeedbackRatingBounds(t *testing.T) {
	r, s := setup(t)

	assert.Equal(t, http.StatusCreated, post(r, "/api/feedback", `{"rating":5,"message":"great"}`))
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/feedback", `{"rating":0}`))
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/feedback", `{"rating":6}`))
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/feedback", `{"rating":3,"email":"x"}`))

	rows, _, err := store.Repo[models.Feedback](s).List(context.Background(), store.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusPending, rows[0].Status)
}

func TestErrorReportKeepsContextAndAgent(t *testing.T) {
	r, s := setup(t)

	require.Equal(t, http.StatusCreated, post(r, "/api/error-reports",
		`{"message":"TypeError: x is undefined","component":"DonateForm","context":{"step":2}}`))
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/error-reports", `{"stack":"..."}`))

	rows, _, err := store.Repo[models.ErrorReport](s).List(context.Background(), store.Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "test-agent/1.0", rows[0].UserAgent)
	assert.Equal(t, models.StatusOpen, rows[0].Status)
	assert.JSONEq(t, `{"step":2}`, string(rows[0].Context))
}
