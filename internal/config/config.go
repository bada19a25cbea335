package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"`
	SiteName       string          `yaml:"site_name"`
	SiteURL        string          `yaml:"site_url"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	JWT            JWTConfig       `yaml:"jwt"`
	Database       DatabaseConfig  `yaml:"database"`
	Redis          RedisConfig     `yaml:"redis"`
	Mail           MailConfig      `yaml:"mail"`
	Admin          AdminConfig     `yaml:"admin"`
	S3             S3Config        `yaml:"s3"`
	Paths          PathsConfig     `yaml:"paths"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	CacheTTLSec    int             `yaml:"cache_ttl_seconds"`
}

type JWTConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

// DatabaseConfig lists the connection strings of the fallback chain. Empty
// entries are skipped; Driver pins a single backend.
type DatabaseConfig struct {
	Driver    string      `yaml:"driver"`
	SQLServer string      `yaml:"sqlserver"`
	Postgres  string      `yaml:"postgres"`
	MySQL     MySQLConfig `yaml:"mysql"`
}

type MySQLConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type MailConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	User        string   `yaml:"user"`
	Pass        string   `yaml:"pass"`
	From        string   `yaml:"from"`
	AdminEmails []string `yaml:"admin_emails"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
}

type PathsConfig struct {
	Logs    string `yaml:"logs"`
	Backups string `yaml:"backups"`
}

type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Load reads the YAML file at configPath (a missing default file is not an
// error), applies environment overrides and validates the result.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnv(&cfg)
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		SiteName: defaultSiteName,
		SiteURL:  defaultSiteURL,
		JWT:      JWTConfig{TTLHours: defaultJWTTTLHours},
		Redis:    RedisConfig{Port: defaultRedisPort, DB: defaultRedisDB},
		Mail:     MailConfig{Port: defaultSMTPPort},
		S3:       S3Config{Region: defaultS3Region, Prefix: defaultS3Prefix},
		RateLimit: RateLimitConfig{
			Requests:      defaultRateRequests,
			WindowSeconds: defaultRateWindowSec,
		},
		CacheTTLSec: defaultCacheTTLSec,
	}
}

// Validate checks values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is required in production")
	}
	if c.JWT.TTLHours < 1 {
		return fmt.Errorf("invalid jwt.ttl_hours %d, expected >= 1", c.JWT.TTLHours)
	}
	switch c.Database.Driver {
	case DriverAuto, DriverMemory, DriverSQLServer, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Mail.Port < 1 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail.port %d, expected 1-65535", c.Mail.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.WindowSeconds < 1 {
		return errors.New("rate_limit.requests and rate_limit.window_seconds must be positive")
	}
	return nil
}

func (c *AppConfig) IsProduction() bool { return c.Env == EnvProduction }

func (c *AppConfig) IsDev() bool { return c.Env == EnvDevelopment }

// Addr is the listen address.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// TokenTTL is the lifetime of issued JWTs.
func (c *AppConfig) TokenTTL() time.Duration { return time.Duration(c.JWT.TTLHours) * time.Hour }

func (c *AppConfig) RateWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *AppConfig) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSec) * time.Second }

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool { return m.Host != "" }

// Enabled reports whether backups go to S3 instead of the local backup dir.
func (s S3Config) Enabled() bool { return s.Bucket != "" }
