package database

import (
	"context"
	"fmt"
	"time"

	"github.com/impactbridge/platform/internal/config"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/store"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

// dialectors maps a driver name to its gorm dialector constructor.
var dialectors = map[string]func(dsn string) gorm.Dialector{
	config.DriverSQLServer: sqlserver.Open,
	config.DriverPostgres:  postgres.Open,
	config.DriverMySQL: func(dsn string) gorm.Dialector {
		return mysql.New(mysql.Config{DSN: dsn, DefaultStringSize: 191})
	},
}

type candidate struct {
	driver string
	dsn    string
}

// candidates lists the configured drivers in fallback order.
func candidates(cfg config.DatabaseConfig) []candidate {
	var out []candidate
	if cfg.SQLServer != "" {
		out = append(out, candidate{config.DriverSQLServer, cfg.SQLServer})
	}
	if cfg.Postgres != "" {
		out = append(out, candidate{config.DriverPostgres, cfg.Postgres})
	}
	if cfg.MySQL.Configured() {
		out = append(out, candidate{config.DriverMySQL, cfg.MySQL.DSNValue()})
	}
	if cfg.Driver == config.DriverAuto {
		return out
	}
	for _, c := range out {
		if c.driver == cfg.Driver {
			return []candidate{c}
		}
	}
	return nil
}

// Open returns the first storage backend that connects, pings and migrates:
// sqlserver, then postgres, then mysql. When none is configured or all fail
// the in-memory backend is used. A pinned driver that fails is an error.
func Open(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*store.Storage, error) {
	log = log.Named("database")
	pinned := cfg.Database.Driver

	if pinned == config.DriverMemory {
		log.Info("using in-memory storage (pinned)")
		return store.NewMemory(), nil
	}

	list := candidates(cfg.Database)
	if pinned != config.DriverAuto && len(list) == 0 {
		return nil, fmt.Errorf("database.driver is %q but no connection string is configured for it", pinned)
	}

	for _, c := range list {
		s, err := connect(ctx, c, gormLogLevel(cfg))
		if err == nil {
			log.Info("connected", zap.String("driver", c.driver))
			return s, nil
		}
		if pinned != config.DriverAuto {
			return nil, err
		}
		log.Warn("driver unavailable, trying next", zap.String("driver", c.driver), zap.Error(err))
	}

	if len(list) == 0 {
		log.Warn("no database configured, falling back to in-memory storage; data will not survive a restart")
	} else {
		log.Warn("every configured database failed, falling back to in-memory storage; data will not survive a restart")
	}
	return store.NewMemory(), nil
}

func gormLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.Env == config.EnvTest {
		return logger.Silent
	}
	return logger.Warn
}

func connect(ctx context.Context, c candidate, level logger.LogLevel) (*store.Storage, error) {
	open, ok := dialectors[c.driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q", c.driver)
	}
	db, err := gorm.Open(open(c.dsn), store.GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("%s: connection failed: %w", c.driver, err)
	}
	s := store.NewGorm(db, c.driver)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s: ping failed: %w", c.driver, err)
	}
	if err := Migrate(db); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s: migration failed: %w", c.driver, err)
	}
	return s, nil
}

// Migrate runs gorm auto-migration for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
