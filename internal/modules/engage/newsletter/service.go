package newsletter

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/mail"
	"github.com/impactbridge/platform/internal/store"
)

type Service struct {
	store  *store.Storage
	notify *mail.Notifier
}

func NewService(s *store.Storage, notify *mail.Notifier) *Service {
	return &Service{store: s, notify: notify}
}

func (s *Service) repo() store.Repository[models.NewsletterSubscriber] {
	return store.Repo[models.NewsletterSubscriber](s.store)
}

// Subscribe adds email to the list. An unsubscribed address is reactivated
// with a fresh unsubscribe token; an active one yields errAlreadySubscribed.
func (s *Service) Subscribe(ctx context.Context, dto *SubscribeDTO) (*models.NewsletterSubscriber, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	name := strings.TrimSpace(dto.Name)

	existing, err := s.repo().First(ctx, store.Where(store.Eq("email", email)))
	switch {
	case err == nil:
		if existing.Status != models.SubscriberUnsubscribed {
			return nil, errAlreadySubscribed
		}
		existing.Status = models.StatusActive
		existing.UnsubscribeToken = uuid.NewString()
		if name != "" {
			existing.Name = name
		}
		if err := s.repo().Update(ctx, existing); err != nil {
			return nil, err
		}
		s.notify.NewsletterWelcome(existing)
		return existing, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	sub := &models.NewsletterSubscriber{Email: email, Name: name}
	if err := s.repo().Create(ctx, sub); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, errAlreadySubscribed
		}
		return nil, err
	}
	s.notify.NewsletterWelcome(sub)
	return sub, nil
}

// Unsubscribe marks the subscriber owning token as unsubscribed. Repeating it is harmless.
func (s *Service) Unsubscribe(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errMissingToken
	}
	sub, err := s.repo().First(ctx, store.Where(store.Eq("unsubscribe_token", token)))
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriberUnsubscribed {
		return sub, nil
	}
	sub.Status = models.SubscriberUnsubscribed
	return sub, s.repo().Update(ctx, sub)
}
