package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/modules/admin/activity"
	"github.com/impactbridge/platform/internal/modules/admin/crud"
	"github.com/impactbridge/platform/internal/modules/admin/stats"
	"github.com/impactbridge/platform/internal/modules/auth/auth"
	"github.com/impactbridge/platform/internal/modules/auth/user"
	"github.com/impactbridge/platform/internal/modules/backup"
	"github.com/impactbridge/platform/internal/modules/content/blog"
	"github.com/impactbridge/platform/internal/modules/content/impact"
	"github.com/impactbridge/platform/internal/modules/content/site"
	"github.com/impactbridge/platform/internal/modules/donation"
	"github.com/impactbridge/platform/internal/modules/engage/contact"
	"github.com/impactbridge/platform/internal/modules/engage/feedback"
	"github.com/impactbridge/platform/internal/modules/engage/newsletter"
	"github.com/impactbridge/platform/internal/modules/engage/proposal"
	"github.com/impactbridge/platform/internal/modules/system/health"
	"github.com/impactbridge/platform/internal/modules/tasks/crontask"
	"github.com/impactbridge/platform/internal/pkg/response"
)

const idempotenceTTL = 10 * time.Minute

// uncached lists the path prefixes that never go through the response cache.
var uncached = []string{"/api/health", "/api/newsletter/unsubscribe", "/api/admin*", "/api/auth*", "/api/donor*"}

func (a *App) registerRoutes() {
	r := a.router
	s := a.store
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })

	api := r.Group("/api", middleware.HTTPCache(a.rc, middleware.HTTPCacheOptions{
		TTL:       a.cfg.CacheTTL(),
		SkipPaths: uncached,
	}))
	health.RegisterRoutes(api, s, a.rc)

	// public POSTs are throttled per client and deduplicated on retry
	guards := []gin.HandlerFunc{
		middleware.RateLimit(a.rc, a.cfg.RateLimit.Requests, a.cfg.RateWindow(), a.logger),
		middleware.Idempotence(a.rc, idempotenceTTL),
	}

	content := api.Group("", middleware.CacheControl(a.cfg.CacheTTL()))
	site.NewHandler(site.NewService(s)).RegisterRoutes(content)
	blog.NewHandler(blog.NewService(s)).RegisterRoutes(content)
	impact.NewHandler(impact.NewService(s)).RegisterRoutes(content)

	contact.NewHandler(contact.NewService(s, a.notify)).RegisterRoutes(api, guards...)
	newsletter.NewHandler(newsletter.NewService(s, a.notify)).RegisterRoutes(api, guards...)
	proposal.NewHandler(proposal.NewService(s, a.notify)).RegisterRoutes(api, guards...)
	feedback.NewHandler(feedback.NewService(s)).RegisterRoutes(api, guards...)

	donations := donation.NewHandler(donation.NewService(s, a.notify))
	donations.RegisterRoutes(api, guards...)
	donations.RegisterDonorRoutes(api, authMW)

	users := user.NewService(s)
	authSvc := auth.NewService(s, users, a.notify)
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW, guards...)

	audit := activity.NewRecorder(s, a.rc, a.logger)
	admin := api.Group("/admin", authMW, middleware.RequireAdmin())
	resources := crud.Resources()
	for _, res := range resources {
		res.Mount(admin, s, audit)
	}
	user.NewHandler(users, audit).RegisterRoutes(admin)
	activity.NewHandler(s).RegisterRoutes(admin)
	audit.RegisterCacheRoutes(admin)
	stats.RegisterRoutes(admin, stats.NewService(s, resources))
	backup.NewHandler(a.backup).RegisterRoutes(admin)
	crontask.NewHandler(a.sched).RegisterRoutes(admin)

	a.registerCronJobs(authSvc)
}
