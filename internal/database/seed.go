package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/impactbridge/platform/internal/config"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/password"
	"github.com/impactbridge/platform/internal/store"
	"go.uber.org/zap"
)

// SeedAdmin creates the configured admin account unless a user with that
// username already exists. It does nothing when no admin is configured.
func SeedAdmin(ctx context.Context, s *store.Storage, admin config.AdminConfig, log *zap.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}
	users := store.Repo[models.User](s)
	_, err := users.First(ctx, store.Where(store.Eq("username", admin.Username)))
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := password.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	email := admin.Email
	if email == "" {
		email = admin.Username + "@localhost"
	}
	u := &models.User{
		Username: admin.Username,
		Email:    email,
		Password: hash,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, u); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Named("database").Info("admin user created", zap.String("username", u.Username), zap.Uint("id", u.ID))
	return nil
}

// SeedDemo fills an empty storage with sample content so the site renders
// without a database. It is skipped when any service already exists.
func SeedDemo(ctx context.Context, s *store.Storage) error {
	services := store.Repo[models.Service](s)
	if n, err := services.Count(ctx, store.Query{}); err != nil || n > 0 {
		return err
	}

	now := time.Now()
	for i, svc := range []models.Service{
		{Title: "Community Mentoring", Slug: "community-mentoring", Summary: "One-to-one mentoring for young people leaving care.", Icon: "users"},
		{Title: "Digital Skills", Slug: "digital-skills", Summary: "Free workshops that build confidence online.", Icon: "laptop"},
		{Title: "Social Enterprise Support", Slug: "social-enterprise-support", Summary: "Advice and seed funding for local social enterprises.", Icon: "briefcase"},
	} {
		svc.SortOrder = i + 1
		if err := services.Create(ctx, &svc); err != nil {
			return err
		}
	}

	metrics := store.Repo[models.ImpactMetric](s)
	for i, m := range []models.ImpactMetric{
		{Label: "People supported", Value: 1240, Category: "people", Year: now.Year()},
		{Label: "Volunteer hours", Value: 8600, Unit: "hours", Category: "people", Year: now.Year()},
		{Label: "Funds distributed", Value: 182000, Unit: "GBP", Category: "funding", Year: now.Year()},
		{Label: "Partner organisations", Value: 37, Category: "partners", Year: now.Year()},
	} {
		m.SortOrder = i + 1
		if err := metrics.Create(ctx, &m); err != nil {
			return err
		}
	}

	faqs := store.Repo[models.FAQ](s)
	for i, f := range []models.FAQ{
		{Question: "What is a Community Interest Company?", Answer: "A CIC is a limited company whose profits are locked in for community benefit.", Category: "about"},
		{Question: "Can I claim Gift Aid on my donation?", Answer: "Yes, if you are a UK taxpayer tick the Gift Aid box when you donate.", Category: "donations"},
		{Question: "How do I propose a project?", Answer: "Use the project proposal form and our team will reply within two weeks.", Category: "partners"},
	} {
		f.SortOrder = i + 1
		if err := faqs.Create(ctx, &f); err != nil {
			return err
		}
	}

	published := now.Add(-48 * time.Hour)
	if err := store.Repo[models.BlogPost](s).Create(ctx, &models.BlogPost{
		Title:       "Welcome to our new website",
		Slug:        "welcome-to-our-new-website",
		Excerpt:     "A quick tour of what you can find here.",
		Content:     "# Welcome\n\nWe have rebuilt our site so it is easier to **find our services**, follow our impact and get involved.\n\n- Browse our projects\n- Read our latest publications\n- Subscribe to the newsletter\n",
		Author:      "The Team",
		Category:    "news",
		Tags:        []string{"announcements"},
		Published:   true,
		PublishedAt: &published,
	}); err != nil {
		return err
	}

	start := now.AddDate(0, -6, 0)
	project := &models.ImpactProject{
		Title:       "Youth Futures Fund",
		Slug:        "youth-futures-fund",
		Summary:     "Grants and mentoring for 16-24 year olds starting out.",
		Location:    "Manchester",
		FundingGoal: 50000,
		FundsRaised: 31250,
		StartDate:   &start,
	}
	if err := store.Repo[models.ImpactProject](s).Create(ctx, project); err != nil {
		return err
	}
	events := store.Repo[models.TimelineEvent](s)
	for i, e := range []models.TimelineEvent{
		{Title: "Fund launched", EventDate: start},
		{Title: "First 20 grants awarded", EventDate: start.AddDate(0, 3, 0)},
	} {
		e.ProjectID = project.ID
		e.SortOrder = i + 1
		if err := events.Create(ctx, &e); err != nil {
			return err
		}
	}

	settings := store.Repo[models.Setting](s)
	for _, st := range []models.Setting{
		{Key: "site_name", Value: "ImpactBridge CIC", IsPublic: true},
		{Key: "contact_email", Value: "hello@impactbridge.example", IsPublic: true},
		{Key: "donations_enabled", Value: "true", IsPublic: true},
	} {
		if err := settings.Create(ctx, &st); err != nil {
			return err
		}
	}

	if err := store.Repo[models.Testimonial](s).Create(ctx, &models.Testimonial{
		Name: "Jordan", Role: "Programme graduate", Quote: "My mentor helped me land my first job.", Rating: 5,
	}); err != nil {
		return err
	}
	return store.Repo[models.Partner](s).Create(ctx, &models.Partner{Name: "Northern Community Trust", Website: "https://example.org"})
}
