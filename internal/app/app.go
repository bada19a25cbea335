package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/impactbridge/platform/internal/config"
	"github.com/impactbridge/platform/internal/database"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/modules/backup"
	pkgcron "github.com/impactbridge/platform/internal/pkg/cron"
	"github.com/impactbridge/platform/internal/pkg/mail"
	pkgredis "github.com/impactbridge/platform/internal/pkg/redis"
	"github.com/impactbridge/platform/internal/store"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *store.Storage
	rc     *pkgredis.Client
	notify *mail.Notifier
	backup *backup.Service
	sched  *pkgcron.Scheduler
	logger *zap.Logger
	cancel context.CancelFunc
}

// New connects storage, Redis and mail from cfg and builds the router.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	s, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.SeedAdmin(ctx, s, cfg.Admin, logger); err != nil {
		return nil, err
	}
	if s.Kind() == store.KindMemory {
		if err := database.SeedDemo(ctx, s); err != nil {
			return nil, fmt.Errorf("seed demo content: %w", err)
		}
	}

	var rc *pkgredis.Client
	if cfg.Redis.Enabled() {
		rc, err = pkgredis.Connect(cfg.Redis.URLValue())
		if err != nil {
			logger.Warn("redis unavailable, rate limiting and response cache disabled", zap.Error(err))
		}
	}

	var sender mail.Sender = mail.Discard{}
	if cfg.Mail.Enabled() {
		sender = mail.NewSMTP(mail.Config{
			Host: cfg.Mail.Host,
			Port: cfg.Mail.Port,
			User: cfg.Mail.User,
			Pass: cfg.Mail.Pass,
			From: cfg.Mail.From,
		})
	} else {
		logger.Warn("smtp not configured, emails are discarded")
	}

	var up backup.Uploader
	if cfg.S3.Enabled() {
		s3up, err := backup.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			logger.Warn("s3 unavailable, backups stay local", zap.Error(err))
		} else {
			up = s3up
		}
	}

	return build(cfg, logger, s, rc, sender, up), nil
}

// build wires the router around already connected dependencies.
func build(cfg *config.AppConfig, logger *zap.Logger, s *store.Storage, rc *pkgredis.Client, sender mail.Sender, up backup.Uploader) *App {
	switch {
	case cfg.Env == config.EnvTest:
		gin.SetMode(gin.TestMode)
	case cfg.IsDev():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidatorTags()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(corsMiddleware(cfg.AllowedOrigins, cfg.IsDev()))

	a := &App{
		cfg:    cfg,
		router: router,
		store:  s,
		rc:     rc,
		notify: mail.NewNotifier(sender, mail.Options{
			SiteName:    cfg.SiteName,
			SiteURL:     cfg.SiteURL,
			AdminEmails: cfg.Mail.AdminEmails,
		}, logger),
		backup: backup.NewService(s, up, cfg.BackupDir(), cfg.S3.Prefix, logger),
		sched:  pkgcron.New(),
		logger: logger,
		cancel: func() {},
	}
	a.registerRoutes()
	return a
}

var validatorOnce sync.Once

// registerValidatorTags makes validation errors name fields by their JSON key.
func registerValidatorTags() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Start launches the background jobs; they stop on Shutdown.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched.Start(ctx)
}

// Addr returns the listen address.
func (a *App) Addr() string { return a.cfg.Addr() }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops the jobs, drains queued emails and closes connections.
func (a *App) Shutdown() {
	a.cancel()
	a.sched.Wait()
	a.notify.Wait()
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close storage", zap.Error(err))
	}
}
