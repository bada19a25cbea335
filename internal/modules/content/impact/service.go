package impact

import (
	"context"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/store"
)

type Service struct{ store *store.Storage }

func NewService(s *store.Storage) *Service { return &Service{store: s} }

func (s *Service) projects() store.Repository[models.ImpactProject] {
	return store.Repo[models.ImpactProject](s.store)
}

// List returns projects, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, status string) ([]models.ImpactProject, error) {
	q := store.Query{}
	if status != "" {
		q = store.Where(store.Eq("status", status))
	}
	rows, _, err := s.projects().List(ctx, q.Order("created_at", true))
	return rows, err
}

// BySlug returns a project with its timeline ordered by event date.
func (s *Service) BySlug(ctx context.Context, slug string) (*models.ImpactProject, error) {
	p, err := s.projects().First(ctx, store.Where(store.Eq("slug", slug)))
	if err != nil {
		return nil, err
	}
	events, _, err := store.Repo[models.TimelineEvent](s.store).List(ctx,
		store.Where(store.Eq("project_id", p.ID)).Order("event_date", false))
	if err != nil {
		return nil, err
	}
	p.Timeline = events
	return p, nil
}

// FundingGoals reports progress for every project with a positive goal.
func (s *Service) FundingGoals(ctx context.Context) ([]FundingGoal, error) {
	rows, _, err := s.projects().List(ctx, store.Where(store.Gt("funding_goal", 0)).Order("created_at", false))
	if err != nil {
		return nil, err
	}
	out := make([]FundingGoal, 0, len(rows))
	for _, p := range rows {
		out = append(out, newFundingGoal(p.ID, p.Title, p.Slug, p.Status, p.FundingGoal, p.FundsRaised))
	}
	return out, nil
}
