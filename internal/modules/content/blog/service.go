package blog

import (
	"context"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/markdown"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

type Service struct{ store *store.Storage }

func NewService(s *store.Storage) *Service { return &Service{store: s} }

func (s *Service) repo() store.Repository[models.BlogPost] {
	return store.Repo[models.BlogPost](s.store)
}

// List returns published posts, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, category string) ([]models.BlogPost, response.Pagination, error) {
	sq := store.Where(store.Eq("published", true))
	if category != "" {
		sq = sq.And(store.Eq("category", category))
	}
	return pagination.Paginate(ctx, s.repo(), sq.Order("published_at", true), q)
}

// BySlug returns a published post with its markdown rendered to ContentHTML.
func (s *Service) BySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo().First(ctx, store.Where(store.Eq("slug", slug), store.Eq("published", true)))
	if err != nil {
		return nil, err
	}
	html, err := markdown.Render(post.Content)
	if err != nil {
		return nil, err
	}
	post.ContentHTML = html
	return post, nil
}
