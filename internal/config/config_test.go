package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Database.MySQL.Configured())
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "port: 9000\nbogus: true\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
port: 9000
site_url: https://example.org/
database:
  postgres: postgres://file
mail:
  host: smtp.file
  admin_emails: [a@example.org]
`)
	t.Setenv("PORT", "9100")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("ADMIN_EMAILS", "x@example.org, y@example.org")
	t.Setenv("REDIS_URL", "localhost:6379/1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "https://example.org", cfg.SiteURL)
	assert.Equal(t, "postgres://env", cfg.Database.Postgres)
	assert.Equal(t, []string{"x@example.org", "y@example.org"}, cfg.Mail.AdminEmails)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URLValue())
	assert.True(t, cfg.Mail.Enabled())
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(writeConfig(t, "port: 8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load(writeConfig(t, "port: 8080\n"))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestInvalidPortAndDriver(t *testing.T) {
	_, err := Load(writeConfig(t, "port: 70000\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "database:\n  driver: oracle\n"))
	assert.Error(t, err)
}

func TestMySQLDSNFromParts(t *testing.T) {
	c := MySQLConfig{Host: "db", User: "app", Password: "pw", Name: "site"}
	assert.True(t, c.Configured())
	assert.Equal(t, "app:pw@tcp(db:3306)/site?charset=utf8mb4&loc=Local&parseTime=true", c.DSNValue())

	c = MySQLConfig{DSN: "u@tcp(h:1)/d"}
	assert.Equal(t, "u@tcp(h:1)/d", c.DSNValue())
}

func TestAdminEmailFallsBackToAdminAccount(t *testing.T) {
	cfg, err := Load(writeConfig(t, "admin:\n  username: root\n  password: pw\n  email: root@example.org\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"root@example.org"}, cfg.Mail.AdminEmails)
}
