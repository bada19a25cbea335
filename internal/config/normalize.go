package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	cfg.AllowedOrigins = normalizeList(cfg.AllowedOrigins)
	cfg.JWT.Secret = strings.TrimSpace(cfg.JWT.Secret)

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Database.SQLServer = strings.TrimSpace(cfg.Database.SQLServer)
	cfg.Database.Postgres = strings.TrimSpace(cfg.Database.Postgres)
	cfg.Database.MySQL = normalizeMySQLConfig(cfg.Database.MySQL)

	cfg.Redis = normalizeRedisConfig(cfg.Redis)

	cfg.Mail.Host = strings.TrimSpace(cfg.Mail.Host)
	cfg.Mail.From = strings.TrimSpace(cfg.Mail.From)
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.User
	}
	cfg.Mail.AdminEmails = normalizeList(cfg.Mail.AdminEmails)
	if len(cfg.Mail.AdminEmails) == 0 && cfg.Admin.Email != "" {
		cfg.Mail.AdminEmails = []string{cfg.Admin.Email}
	}

	cfg.Admin.Username = strings.TrimSpace(cfg.Admin.Username)
	cfg.Admin.Email = strings.TrimSpace(cfg.Admin.Email)

	cfg.S3.Bucket = strings.TrimSpace(cfg.S3.Bucket)
	cfg.S3.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.S3.Endpoint), "/")
	if cfg.S3.Region == "" {
		cfg.S3.Region = defaultS3Region
	}
	if cfg.S3.Prefix != "" && !strings.HasSuffix(cfg.S3.Prefix, "/") {
		cfg.S3.Prefix += "/"
	}

	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.Paths.Backups = strings.TrimSpace(cfg.Paths.Backups)
}

func normalizeMySQLConfig(cfg MySQLConfig) MySQLConfig {
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Charset = strings.TrimSpace(cfg.Charset)
	cfg.Loc = strings.TrimSpace(cfg.Loc)
	if cfg.Params != nil {
		cfg.Params = copyStringMap(cfg.Params)
	}
	return cfg
}

func normalizeRedisConfig(cfg RedisConfig) RedisConfig {
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.Password = strings.TrimSpace(cfg.Password)
	if cfg.Port == 0 {
		cfg.Port = defaultRedisPort
	}
	return cfg
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	switch trimmed {
	case "":
		return defaultEnv
	case "prod":
		return EnvProduction
	case "dev":
		return EnvDevelopment
	}
	return trimmed
}

func copyStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
