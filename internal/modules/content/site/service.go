package site

import (
	"context"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/store"
)

// Service reads the public, mostly static content of the site.
type Service struct{ store *store.Storage }

func NewService(s *store.Storage) *Service { return &Service{store: s} }

func all[T any](ctx context.Context, s *store.Storage, q store.Query) ([]T, error) {
	rows, _, err := store.Repo[T](s).List(ctx, q)
	return rows, err
}

// optional narrows q by column when value is non-empty.
func optional(q store.Query, column, value string) store.Query {
	if value == "" {
		return q
	}
	return q.And(store.Eq(column, value))
}

func (s *Service) Services(ctx context.Context) ([]models.Service, error) {
	return all[models.Service](ctx, s.store, store.Where(store.Eq("is_active", true)).Order("sort_order", false))
}

func (s *Service) ServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return store.Repo[models.Service](s.store).First(ctx, store.Where(store.Eq("slug", slug), store.Eq("is_active", true)))
}

func (s *Service) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	return all[models.Testimonial](ctx, s.store, store.Where(store.Eq("is_published", true)).Order("created_at", true))
}

func (s *Service) Metrics(ctx context.Context, category string) ([]models.ImpactMetric, error) {
	return all[models.ImpactMetric](ctx, s.store, optional(store.Query{}, "category", category).Order("sort_order", false))
}

func (s *Service) Partners(ctx context.Context) ([]models.Partner, error) {
	return all[models.Partner](ctx, s.store, store.Query{}.Order("sort_order", false))
}

func (s *Service) FAQs(ctx context.Context, category string) ([]models.FAQ, error) {
	q := optional(store.Where(store.Eq("is_published", true)), "category", category)
	return all[models.FAQ](ctx, s.store, q.Order("sort_order", false))
}

func (s *Service) CaseStudies(ctx context.Context, sector string) ([]models.CaseStudy, error) {
	q := optional(store.Where(store.Eq("published", true)), "sector", sector)
	return all[models.CaseStudy](ctx, s.store, q.Order("created_at", true))
}

func (s *Service) CaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	return store.Repo[models.CaseStudy](s.store).First(ctx, store.Where(store.Eq("slug", slug), store.Eq("published", true)))
}

func (s *Service) Publications(ctx context.Context, kind string) ([]models.Publication, error) {
	return all[models.Publication](ctx, s.store, optional(store.Query{}, "type", kind).Order("published_at", true))
}

func (s *Service) PublicationBySlug(ctx context.Context, slug string) (*models.Publication, error) {
	return store.Repo[models.Publication](s.store).First(ctx, store.Where(store.Eq("slug", slug)))
}

// PublicSettings returns the settings flagged public as a key/value map.
func (s *Service) PublicSettings(ctx context.Context) (map[string]string, error) {
	rows, err := all[models.Setting](ctx, s.store, store.Where(store.Eq("is_public", true)).Order("key", false))
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}
