package impact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func get(r http.Handler, path string, out interface{}) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		_ = json.Unmarshal(w.Body.Bytes(), out)
	}
	return w.Code
}

func TestFundingGoalMath(t *testing.T) {
	g := newFundingGoal(1, "a", "a", "active", 1000, 250)
	assert.Equal(t, 750.0, g.Remaining)
	assert.Equal(t, 25.0, g.Percent)

	g = newFundingGoal(1, "a", "a", "active", 1000, 1500)
	assert.Equal(t, 0.0, g.Remaining)
	assert.Equal(t, 100.0, g.Percent)

	g = newFundingGoal(1, "a", "a", "active", 3, 1)
	assert.Equal(t, 33.3, g.Percent)
}

func TestProjectDetailIncludesOrderedTimeline(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()
	p := &models.ImpactProject{Title: "Clean Water", Slug: "clean-water", FundingGoal: 5000, FundsRaised: 1250}
	require.NoError(t, store.Repo[models.ImpactProject](s).Create(ctx, p))
	require.NoError(t, store.Repo[models.ImpactProject](s).Create(ctx, &models.ImpactProject{Title: "Unfunded", Slug: "unfunded"}))

	events := store.Repo[models.TimelineEvent](s)
	now := time.Now()
	require.NoError(t, events.Create(ctx, &models.TimelineEvent{ProjectID: p.ID, Title: "second", EventDate: now}))
	require.NoError(t, events.Create(ctx, &models.TimelineEvent{ProjectID: p.ID, Title: "first", EventDate: now.AddDate(0, -1, 0)}))
	require.NoError(t, events.Create(ctx, &models.TimelineEvent{ProjectID: p.ID + 1, Title: "other", EventDate: now}))

	var detail models.ImpactProject
	require.Equal(t, http.StatusOK, get(r, "/api/impact-projects/clean-water", &detail))
	require.Len(t, detail.Timeline, 2)
	assert.Equal(t, "first", detail.Timeline[0].Title)
	assert.Equal(t, "second", detail.Timeline[1].Title)
	assert.Equal(t, models.StatusActive, detail.Status)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/impact-projects/nope", nil))

	var goals struct {
		Data []FundingGoal `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(r, "/api/funding-goals", &goals))
	require.Len(t, goals.Data, 1)
	assert.Equal(t, "clean-water", goals.Data[0].Slug)
	assert.Equal(t, 3750.0, goals.Data[0].Remaining)
	assert.Equal(t, 25.0, goals.Data[0].Percent)
}
