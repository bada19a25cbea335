package donation

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/mail"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
)

type Service struct {
	store  *store.Storage
	notify *mail.Notifier
	now    func() time.Time
}

func NewService(s *store.Storage, notify *mail.Notifier) *Service {
	return &Service{store: s, notify: notify, now: time.Now}
}

func (s *Service) donations() store.Repository[models.Donation] {
	return store.Repo[models.Donation](s.store)
}

func (s *Service) subscriptions() store.Repository[models.Subscription] {
	return store.Repo[models.Subscription](s.store)
}

// Donate records a gift. uid links it to a signed-in donor when non-zero.
func (s *Service) Donate(ctx context.Context, dto *DonateDTO, uid uint) (*models.Donation, error) {
	d := &models.Donation{
		DonorName:  strings.TrimSpace(dto.DonorName),
		DonorEmail: strings.ToLower(strings.TrimSpace(dto.DonorEmail)),
		Amount:     dto.Amount,
		Currency:   strings.ToUpper(dto.Currency),
		Purpose:    strings.TrimSpace(dto.Purpose),
		Message:    dto.Message,
		GiftAid:    dto.GiftAid,
		Anonymous:  dto.Anonymous,
	}
	if uid != 0 {
		d.UserID = &uid
	}
	if err := s.donations().Create(ctx, d); err != nil {
		return nil, err
	}
	s.notify.DonationThanks(d)
	return d, nil
}

func (s *Service) History(ctx context.Context, uid uint, q pagination.Query) ([]models.Donation, response.Pagination, error) {
	return pagination.Paginate(ctx, s.donations(), store.Where(store.Eq("user_id", uid)).Order("id", true), q)
}

func (s *Service) Summary(ctx context.Context, uid uint) (*Summary, error) {
	rows, _, err := s.donations().List(ctx, store.Where(store.Eq("user_id", uid)).Order("created_at", false))
	if err != nil {
		return nil, err
	}
	out := &Summary{Currency: models.DefaultCurrency, TotalsByCurrency: map[string]float64{}, ByYear: []YearTotal{}}
	years := map[int]*YearTotal{}
	for i := range rows {
		d := rows[i]
		if d.Status == models.StatusCancelled {
			continue
		}
		out.TotalsByCurrency[d.Currency] += d.Amount
		out.DonationCount++
		at := d.CreatedAt
		if out.FirstDonationAt == nil {
			out.FirstDonationAt = &at
		}
		out.LastDonationAt = &at

		y := years[at.Year()]
		if y == nil {
			y = &YearTotal{Year: at.Year()}
			years[at.Year()] = y
		}
		if d.Currency == out.Currency {
			y.Total += d.Amount
		}
		y.Count++
	}
	out.TotalAmount = out.TotalsByCurrency[out.Currency]
	for _, y := range years {
		out.ByYear = append(out.ByYear, *y)
	}
	sort.Slice(out.ByYear, func(i, j int) bool { return out.ByYear[i].Year > out.ByYear[j].Year })

	subs, _, err := s.subscriptions().List(ctx, store.Where(store.Eq("user_id", uid), store.Eq("status", models.StatusActive)))
	if err != nil {
		return nil, err
	}
	out.ActiveSubscriptions = len(subs)
	for _, sub := range subs {
		if sub.Currency == out.Currency {
			out.MonthlyCommitment += monthlyEquivalent(sub.Amount, sub.Frequency)
		}
	}
	out.MonthlyCommitment = float64(int64(out.MonthlyCommitment*100+0.5)) / 100
	return out, nil
}

func (s *Service) Subscriptions(ctx context.Context, uid uint) ([]models.Subscription, error) {
	rows, _, err := s.subscriptions().List(ctx, store.Where(store.Eq("user_id", uid)).Order("created_at", true))
	return rows, err
}

// Subscribe creates a recurring pledge for the donor with email.
func (s *Service) Subscribe(ctx context.Context, uid uint, email string, dto *SubscribeDTO) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:    &uid,
		Email:     email,
		Amount:    dto.Amount,
		Currency:  strings.ToUpper(dto.Currency),
		Frequency: dto.Frequency,
	}
	sub.ApplyDefaults()
	next := nextPayment(s.now(), sub.Frequency)
	sub.NextPaymentAt = &next
	if err := s.subscriptions().Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel stops the caller's subscription id. Subscriptions of other donors
// are reported as missing.
func (s *Service) Cancel(ctx context.Context, uid, id uint) (*models.Subscription, error) {
	sub, err := s.subscriptions().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID == nil || *sub.UserID != uid {
		return nil, errSubscriptionNotFound
	}
	if sub.Status == models.StatusCancelled {
		return sub, nil
	}
	sub.Status = models.StatusCancelled
	sub.NextPaymentAt = nil
	return sub, s.subscriptions().Update(ctx, sub)
}

func nextPayment(from time.Time, frequency string) time.Time {
	switch frequency {
	case "weekly":
		return from.AddDate(0, 0, 7)
	case "quarterly":
		return from.AddDate(0, 3, 0)
	case "annually":
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

func monthlyEquivalent(amount float64, frequency string) float64 {
	switch frequency {
	case "weekly":
		return amount * 52 / 12
	case "quarterly":
		return amount / 3
	case "annually":
		return amount / 12
	}
	return amount
}
