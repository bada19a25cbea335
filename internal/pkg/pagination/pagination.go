package pagination

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts and validates pagination params from the request.
func FromContext(c *gin.Context) Query {
	page := parseIntOr(c.DefaultQuery("page", "1"), DefaultPage)
	size := parseIntOr(c.DefaultQuery("size", "10"), DefaultSize)

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return Query{Page: page, Size: size}
}

// Paginate applies offset/limit to a store query and returns the page with
// its pagination metadata.
func Paginate[T any](ctx context.Context, repo store.Repository[T], sq store.Query, q Query) ([]T, response.Pagination, error) {
	rows, total, err := repo.List(ctx, sq.Page((q.Page-1)*q.Size, q.Size))
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, Meta(total, q), nil
}

// Meta builds pagination metadata for total rows at page q.
func Meta(total int64, q Query) response.Pagination {
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
