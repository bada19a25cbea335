package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/store"
)

// Resources lists every entity editable through /admin. activity-logs and
// users have dedicated handlers.
func Resources() []Resource {
	return []Resource{
		New("contact-messages", Options[models.ContactMessage]{Filters: []string{"status", "email"}}),
		New("newsletter-subscribers", Options[models.NewsletterSubscriber]{
			Filters: []string{"status", "email"},
			Prepare: prepareSubscriber,
		}),
		New("services", Options[models.Service]{Filters: []string{"is_active"}}),
		New("testimonials", Options[models.Testimonial]{Filters: []string{"is_published", "rating"}}),
		New("impact-metrics", Options[models.ImpactMetric]{Filters: []string{"category", "year"}}),
		New("blog-posts", Options[models.BlogPost]{
			Filters: []string{"published", "category", "author"},
			Prepare: prepareBlogPost,
		}),
		New("settings", Options[models.Setting]{Filters: []string{"is_public", "key"}}),
		New("partners", Options[models.Partner]{}),
		New("donations", Options[models.Donation]{Filters: []string{"status", "user_id", "currency", "donor_email"}}),
		New("subscriptions", Options[models.Subscription]{Filters: []string{"status", "user_id", "frequency"}}),
		New("proposals", Options[models.ProjectProposal]{Filters: []string{"status", "email"}}),
		New("impact-projects", Options[models.ImpactProject]{
			Filters: []string{"status"},
			Prepare: prepareImpactProject,
		}),
		New("timeline-events", Options[models.TimelineEvent]{
			Filters: []string{"project_id"},
			Prepare: prepareTimelineEvent,
		}),
		New("case-studies", Options[models.CaseStudy]{Filters: []string{"published", "sector"}}),
		New("publications", Options[models.Publication]{Filters: []string{"type"}}),
		New("faqs", Options[models.FAQ]{Filters: []string{"is_published", "category"}}),
		New("feedback", Options[models.Feedback]{Filters: []string{"status", "rating"}}),
		New("error-reports", Options[models.ErrorReport]{Filters: []string{"status", "component"}}),
	}
}

func prepareSubscriber(_ context.Context, _ *store.Storage, v *models.NewsletterSubscriber) error {
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	if v.Status != "" && v.Status != models.StatusActive && v.Status != models.SubscriberUnsubscribed {
		return fmt.Errorf("status must be %s or %s", models.StatusActive, models.SubscriberUnsubscribed)
	}
	return nil
}

// prepareBlogPost stamps the publish time the first time a post goes live.
func prepareBlogPost(_ context.Context, _ *store.Storage, v *models.BlogPost) error {
	v.ContentHTML = ""
	if v.Published && v.PublishedAt == nil {
		now := time.Now()
		v.PublishedAt = &now
	}
	return nil
}

func prepareImpactProject(_ context.Context, _ *store.Storage, v *models.ImpactProject) error {
	v.Timeline = nil
	if v.StartDate != nil && v.EndDate != nil && v.EndDate.Before(*v.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}

func prepareTimelineEvent(ctx context.Context, s *store.Storage, v *models.TimelineEvent) error {
	_, err := store.Repo[models.ImpactProject](s).Get(ctx, v.ProjectID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("impact project %d does not exist", v.ProjectID)
	}
	return err
}
