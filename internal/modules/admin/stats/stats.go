package stats

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/modules/admin/crud"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

// Overview is the admin dashboard headline. TotalDonated is in Currency;
// other currencies only appear in DonatedByCurrency.
type Overview struct {
	Counts            map[string]int64   `json:"counts"`
	Currency          string             `json:"currency"`
	TotalDonated      float64            `json:"total_donated"`
	DonatedByCurrency map[string]float64 `json:"donated_by_currency"`
	DonationCount     int64              `json:"donation_count"`
	PendingMessages   int64              `json:"pending_messages"`
	PendingProposals  int64              `json:"pending_proposals"`
	ActiveSubscribers int64              `json:"active_subscribers"`
	OpenErrorReports  int64              `json:"open_error_reports"`
	Users             int64              `json:"users"`
}

type Service struct {
	store     *store.Storage
	resources []crud.Resource
}

func NewService(s *store.Storage, resources []crud.Resource) *Service {
	return &Service{store: s, resources: resources}
}

func count[T any](ctx context.Context, s *store.Storage, filters ...store.Filter) (int64, error) {
	return store.Repo[T](s).Count(ctx, store.Where(filters...))
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{Counts: make(map[string]int64, len(s.resources))}
	for _, r := range s.resources {
		n, err := r.Count(ctx, s.store)
		if err != nil {
			return nil, err
		}
		out.Counts[r.Path()] = n
	}

	donations, _, err := store.Repo[models.Donation](s.store).List(ctx, store.Where(store.Ne("status", models.StatusCancelled)))
	if err != nil {
		return nil, err
	}
	out.Currency = models.DefaultCurrency
	out.DonatedByCurrency = map[string]float64{}
	for _, d := range donations {
		out.DonatedByCurrency[d.Currency] += d.Amount
	}
	out.TotalDonated = out.DonatedByCurrency[out.Currency]
	out.DonationCount = int64(len(donations))

	steps := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&out.PendingMessages, func() (int64, error) {
			return count[models.ContactMessage](ctx, s.store, store.Eq("status", models.StatusPending))
		}},
		{&out.PendingProposals, func() (int64, error) {
			return count[models.ProjectProposal](ctx, s.store, store.Eq("status", models.StatusPending))
		}},
		{&out.ActiveSubscribers, func() (int64, error) {
			return count[models.NewsletterSubscriber](ctx, s.store, store.Eq("status", models.StatusActive))
		}},
		{&out.OpenErrorReports, func() (int64, error) {
			return count[models.ErrorReport](ctx, s.store, store.Eq("status", models.StatusOpen))
		}},
		{&out.Users, func() (int64, error) { return count[models.User](ctx, s.store) }},
	}
	for _, step := range steps {
		n, err := step.fn()
		if err != nil {
			return nil, err
		}
		*step.dst = n
	}
	return out, nil
}

func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.GET("/stats", func(c *gin.Context) {
		out, err := svc.Overview(c.Request.Context())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, out)
	})
}
