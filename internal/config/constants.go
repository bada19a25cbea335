package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8080
	defaultEnv        = "development"
	defaultSiteName   = "ImpactBridge"
	defaultSiteURL    = "http://localhost:5173"

	defaultJWTTTLHours = 24

	defaultMySQLPort     = 3306
	defaultMySQLUser     = "root"
	defaultMySQLName     = "impactbridge"
	defaultMySQLCharset  = "utf8mb4"
	defaultMySQLLoc      = "Local"
	defaultRedisPort     = 6379
	defaultRedisDB       = 0
	defaultSMTPPort      = 587
	defaultS3Region      = "eu-west-2"
	defaultS3Prefix      = "backups/"
	defaultRateRequests  = 20
	defaultRateWindowSec = 60
	defaultCacheTTLSec   = 60
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Database driver names accepted by database.driver.
const (
	DriverAuto      = ""
	DriverMemory    = "memory"
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
)
