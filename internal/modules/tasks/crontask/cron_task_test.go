package crontask

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	pkgcron "github.com/impactbridge/platform/internal/pkg/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ran := make(chan struct{}, 1)
	sched := pkgcron.New()
	sched.Register(pkgcron.Job{
		Name:     "purge_reset_tokens",
		Interval: time.Hour,
		Fn: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})

	r := gin.New()
	NewHandler(sched).RegisterRoutes(r.Group("/api/admin"))
	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	w := do(http.MethodGet, "/api/admin/tasks")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []pkgcron.ListItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "1h0m0s", list.Data[0].Interval)

	assert.Equal(t, http.StatusAccepted, do(http.MethodPost, "/api/admin/tasks/purge_reset_tokens/run").Code)
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	assert.Eventually(t, func() bool {
		res, err := sched.GetTask("purge_reset_tokens")
		return err == nil && res.Status == pkgcron.StatusFulfill
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/admin/tasks/purge_reset_tokens").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/admin/tasks/nope").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/api/admin/tasks/nope/run").Code)
}
