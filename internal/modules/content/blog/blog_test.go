package blog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := store.NewMemory()
	repo := store.Repo[models.BlogPost](s)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []models.BlogPost{
		{Title: "Old", Slug: "old", Category: "news", Published: true, Content: "# Old"},
		{Title: "New", Slug: "new", Category: "stories", Published: true, Content: "Hello *world*"},
		{Title: "Draft", Slug: "draft", Category: "news"},
	} {
		at := base.AddDate(0, i, 0)
		p.PublishedAt = &at
		require.NoError(t, repo.Create(ctx, &p))
	}
	r := gin.New()
	NewHandler(NewService(s)).RegisterRoutes(r.Group("/api"))
	return r
}

type page struct {
	Data       []models.BlogPost   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

func get(r http.Handler, path string, out interface{}) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		_ = json.Unmarshal(w.Body.Bytes(), out)
	}
	return w.Code
}

func TestListPublishedNewestFirst(t *testing.T) {
	r := seed(t)

	var p page
	require.Equal(t, http.StatusOK, get(r, "/api/blog/posts", &p))
	require.Len(t, p.Data, 2)
	assert.Equal(t, "new", p.Data[0].Slug)
	assert.Equal(t, "old", p.Data[1].Slug)
	assert.EqualValues(t, 2, p.Pagination.Total)
	assert.Empty(t, p.Data[0].ContentHTML)

	p = page{}
	require.Equal(t, http.StatusOK, get(r, "/api/blog/posts?category=news", &p))
	require.Len(t, p.Data, 1)
	assert.Equal(t, "old", p.Data[0].Slug)

	p = page{}
	require.Equal(t, http.StatusOK, get(r, "/api/blog/posts?size=1&page=2", &p))
	require.Len(t, p.Data, 1)
	assert.False(t, p.Pagination.HasNextPage)
}

func TestDetailRendersMarkdown(t *testing.T) {
	r := seed(t)

	var post models.BlogPost
	require.Equal(t, http.StatusOK, get(r, "/api/blog/posts/new", &post))
	assert.Contains(t, post.ContentHTML, "<em>world</em>")

	assert.Equal(t, http.StatusNotFound, get(r, "/api/blog/posts/draft", nil))
}
