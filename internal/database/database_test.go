package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/impactbridge/platform/internal/config"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/password"
	"github.com/impactbridge/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{Env: config.EnvTest}
}

// withDialector swaps a driver for in-process sqlite for the test's duration.
func withDialector(t *testing.T, driver string, open func(string) gorm.Dialector) {
	t.Helper()
	prev := dialectors[driver]
	dialectors[driver] = open
	t.Cleanup(func() { dialectors[driver] = prev })
}

func TestOpenWithoutDatabaseFallsBackToMemory(t *testing.T) {
	s, err := Open(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, store.KindMemory, s.Kind())
}

func TestOpenFallsThroughFailingDrivers(t *testing.T) {
	withDialector(t, config.DriverSQLServer, func(string) gorm.Dialector {
		return sqlite.Open(filepath.Join(t.TempDir(), "missing-dir", "nested", "x.db"))
	})
	dbPath := filepath.Join(t.TempDir(), "pg.db")
	withDialector(t, config.DriverPostgres, func(string) gorm.Dialector { return sqlite.Open(dbPath) })

	cfg := testConfig()
	cfg.Database.SQLServer = "sqlserver://unreachable"
	cfg.Database.Postgres = "postgres://sqlite-standin"

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.Equal(t, store.KindPostgres, s.Kind())

	// Migrated: every table is usable.
	_, err = store.Repo[models.Donation](s).Count(context.Background(), store.Query{})
	assert.NoError(t, err)
}

func TestOpenAllFailingFallsBackToMemory(t *testing.T) {
	withDialector(t, config.DriverPostgres, func(string) gorm.Dialector {
		return sqlite.Open(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"))
	})
	cfg := testConfig()
	cfg.Database.Postgres = "postgres://broken"

	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, store.KindMemory, s.Kind())
}

func TestPinnedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = config.DriverMemory
	cfg.Database.Postgres = "postgres://ignored"
	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, store.KindMemory, s.Kind())

	cfg = testConfig()
	cfg.Database.Driver = config.DriverMySQL
	_, err = Open(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestCandidatesOrder(t *testing.T) {
	list := candidates(config.DatabaseConfig{
		Postgres:  "pg",
		SQLServer: "ms",
		MySQL:     config.MySQLConfig{DSN: "my"},
	})
	require.Len(t, list, 3)
	assert.Equal(t, config.DriverSQLServer, list[0].driver)
	assert.Equal(t, config.DriverPostgres, list[1].driver)
	assert.Equal(t, config.DriverMySQL, list[2].driver)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	admin := config.AdminConfig{Username: "root", Password: "supersecret", Email: "root@example.org"}

	require.NoError(t, SeedAdmin(ctx, s, admin, zap.NewNop()))
	require.NoError(t, SeedAdmin(ctx, s, admin, zap.NewNop()))

	users, total, err := store.Repo[models.User](s).List(ctx, store.Query{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.True(t, password.Verify(users[0].Password, "supersecret"))
}

func TestSeedDemoRunsOnce(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, SeedDemo(ctx, s))
	require.NoError(t, SeedDemo(ctx, s))

	n, err := store.Repo[models.Service](s).Count(ctx, store.Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	post, err := store.Repo[models.BlogPost](s).First(ctx, store.Where(store.Eq("slug", "welcome-to-our-new-website")))
	require.NoError(t, err)
	assert.True(t, post.Published)
}
