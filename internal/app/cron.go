package app

import (
	"context"
	"time"

	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/modules/auth/auth"
	pkgcron "github.com/impactbridge/platform/internal/pkg/cron"
	"github.com/impactbridge/platform/internal/store"
	"go.uber.org/zap"
)

const (
	errorReportRetention = 90 * 24 * time.Hour
	activityLogRetention = 365 * 24 * time.Hour
)

// registerCronJobs registers the scheduled maintenance jobs.
func (a *App) registerCronJobs(authSvc *auth.Service) {
	log := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        "purge_reset_tokens",
		Description: "delete expired and used password reset tokens",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := authSvc.PurgeResetTokens(ctx)
			if err != nil {
				log.Warn("purge reset tokens failed", zap.Error(err))
				return err
			}
			log.Info("reset tokens purged", zap.Int64("deleted", n))
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "prune_error_reports",
		Description: "delete error reports older than 90 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			return prune[models.ErrorReport](ctx, a.store, errorReportRetention, log.With(zap.String("table", "error_reports")))
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "prune_activity_logs",
		Description: "delete activity logs older than a year",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			return prune[models.ActivityLog](ctx, a.store, activityLogRetention, log.With(zap.String("table", "activity_logs")))
		},
	})

	if a.cfg.S3.Enabled() {
		a.sched.Register(pkgcron.Job{
			Name:        "backup",
			Description: "export every table to S3",
			Interval:    24 * time.Hour,
			Fn: func(ctx context.Context) error {
				if _, err := a.backup.Run(ctx); err != nil {
					log.Warn("backup failed", zap.Error(err))
					return err
				}
				return nil
			},
		})
	}
}

func prune[T any](ctx context.Context, s *store.Storage, keep time.Duration, log *zap.Logger) error {
	cutoff := time.Now().Add(-keep)
	n, err := store.Repo[T](s).DeleteWhere(ctx, store.Where(store.Lt("created_at", cutoff)))
	if err != nil {
		log.Warn("prune failed", zap.Error(err))
		return err
	}
	log.Info("pruned", zap.Int64("deleted", n))
	return nil
}
