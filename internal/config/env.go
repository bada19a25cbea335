package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv overlays environment variables on the file config. A .env file is
// loaded into the process environment by main before Load runs.
func applyEnv(cfg *AppConfig) {
	setInt(&cfg.Port, "PORT")
	setString(&cfg.Env, "NODE_ENV")
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.SiteName, "SITE_NAME")
	setString(&cfg.SiteURL, "SITE_URL")
	setList(&cfg.AllowedOrigins, "ALLOWED_ORIGINS")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTLHours, "JWT_TTL_HOURS")

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.SQLServer, "MSSQL_CONNECTION_STRING")
	setString(&cfg.Database.Postgres, "DATABASE_URL")
	setString(&cfg.Database.MySQL.DSN, "MYSQL_DSN")

	setString(&cfg.Redis.URL, "REDIS_URL")

	setString(&cfg.Mail.Host, "SMTP_HOST")
	setInt(&cfg.Mail.Port, "SMTP_PORT")
	setString(&cfg.Mail.User, "SMTP_USER")
	setString(&cfg.Mail.Pass, "SMTP_PASS")
	setString(&cfg.Mail.From, "SMTP_FROM")
	setList(&cfg.Mail.AdminEmails, "ADMIN_EMAILS")

	setString(&cfg.Admin.Username, "ADMIN_USERNAME")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Admin.Email, "ADMIN_EMAIL")

	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")

	setString(&cfg.Paths.Logs, "LOG_DIR")
	setString(&cfg.Paths.Backups, "BACKUP_DIR")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func setList(dst *[]string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = strings.Split(v, ",")
	}
}
