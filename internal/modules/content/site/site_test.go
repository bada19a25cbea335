package site

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

func ptr[T any](v T) *T { return &v }

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

type listBody[T any] struct {
	Data []T `json:"data"`
}

func TestServicesActiveAndOrdered(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()
	repo := store.Repo[models.Service](s)
	require.NoError(t, repo.Create(ctx, &models.Service{Title: "B", Slug: "b", SortOrder: 2}))
	require.NoError(t, repo.Create(ctx, &models.Service{Title: "A", Slug: "a", SortOrder: 1}))
	require.NoError(t, repo.Create(ctx, &models.Service{Title: "Hidden", Slug: "hidden", IsActive: ptr(false)}))

	var out listBody[models.Service]
	require.Equal(t, http.StatusOK, get(r, "/api/services", &out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "a", out.Data[0].Slug)
	assert.Equal(t, "b", out.Data[1].Slug)

	assert.Equal(t, http.StatusOK, get(r, "/api/services/a", nil))
	assert.Equal(t, http.StatusNotFound, get(r, "/api/services/hidden", nil))
}

func TestEmptyListsAreArrays(t *testing.T) {
	r, _ := setup(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/partners", nil))
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestPublishedFiltersAndCategories(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()
	faqs := store.Repo[models.FAQ](s)
	require.NoError(t, faqs.Create(ctx, &models.FAQ{Question: "q1", Answer: "a", Category: "donating"}))
	require.NoError(t, faqs.Create(ctx, &models.FAQ{Question: "q2", Answer: "a", Category: "general"}))
	require.NoError(t, faqs.Create(ctx, &models.FAQ{Question: "q3", Answer: "a", IsPublished: ptr(false)}))

	var out listBody[models.FAQ]
	require.Equal(t, http.StatusOK, get(r, "/api/faqs", &out))
	assert.Len(t, out.Data, 2)
	out = listBody[models.FAQ]{}
	require.Equal(t, http.StatusOK, get(r, "/api/faqs?category=donating", &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "q1", out.Data[0].Question)

	metrics := store.Repo[models.ImpactMetric](s)
	require.NoError(t, metrics.Create(ctx, &models.ImpactMetric{Label: "People", Value: 1200, Category: "reach"}))
	require.NoError(t, metrics.Create(ctx, &models.ImpactMetric{Label: "Trees", Value: 300, Category: "environment"}))
	var m listBody[models.ImpactMetric]
	require.Equal(t, http.StatusOK, get(r, "/api/impact-metrics?category=reach", &m))
	require.Len(t, m.Data, 1)
	assert.Equal(t, "People", m.Data[0].Label)

	cases := store.Repo[models.CaseStudy](s)
	require.NoError(t, cases.Create(ctx, &models.CaseStudy{Title: "Live", Slug: "live", Published: true}))
	require.NoError(t, cases.Create(ctx, &models.CaseStudy{Title: "Draft", Slug: "draft"}))
	var cs listBody[models.CaseStudy]
	require.Equal(t, http.StatusOK, get(r, "/api/case-studies", &cs))
	assert.Len(t, cs.Data, 1)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/case-studies/draft", nil))
}

func TestPublicSettingsMap(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()
	repo := store.Repo[models.Setting](s)
	require.NoError(t, repo.Create(ctx, &models.Setting{Key: "site_tagline", Value: "Hello", IsPublic: true}))
	require.NoError(t, repo.Create(ctx, &models.Setting{Key: "smtp_note", Value: "secret"}))

	var out map[string]string
	require.Equal(t, http.StatusOK, get(r, "/api/settings", &out))
	assert.Equal(t, map[string]string{"site_tagline": "Hello"}, out)
}

func TestPublicationsDefaultType(t *testing.T) {
	r, s := setup(t)
	require.NoError(t, store.Repo[models.Publication](s).Create(context.Background(), &models.Publication{Title: "Annual", Slug: "annual"}))

	var p models.Publication
	require.Equal(t, http.StatusOK, get(r, "/api/publications/annual", &p))
	assert.Equal(t, "report", p.Type)

	assert.NotNil(t, p.PublishedAt)

	var out listBody[models.Publication]
	require.Equal(t, http.StatusOK, get(r, "/api/publications?type=guide", &out))
	assert.Empty(t, out.Data)
}

func TestPublicationsNewestPublishedFirst(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()
	repo := store.Repo[models.Publication](s)
	at := func(year int) *time.Time {
		ts := time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	require.NoError(t, repo.Create(ctx, &models.Publication{Title: "Recent", Slug: "recent", PublishedAt: at(2024)}))
	require.NoError(t, repo.Create(ctx, &models.Publication{Title: "Archive", Slug: "archive", PublishedAt: at(2019)}))
	require.NoError(t, repo.Create(ctx, &models.Publication{Title: "Middle", Slug: "middle", PublishedAt: at(2021)}))

	var out listBody[models.Publication]
	require.Equal(t, http.StatusOK, get(r, "/api/publications", &out))
	require.Len(t, out.Data, 3)
	assert.Equal(t, []string{"recent", "middle", "archive"}, []string{out.Data[0].Slug, out.Data[1].Slug, out.Data[2].Slug})
}
