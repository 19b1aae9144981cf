package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvLogLevel       = "STOREFRONT_LOG_LEVEL"
	EnvDBDSN          = "STOREFRONT_DB_DSN"
	EnvDBHost         = "STOREFRONT_DB_HOST"
	EnvDBUser         = "STOREFRONT_DB_USER"
	EnvDBName         = "STOREFRONT_DB_NAME"
	EnvDBPassword     = "STOREFRONT_DB_PASSWORD"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisTTL       = "STOREFRONT_REDIS_CATALOG_TTL"
	EnvUseSQLite      = "STOREFRONT_USE_SQLITE"
	EnvAllowedOrigins = "STOREFRONT_ALLOWED_ORIGINS"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultSQLiteDSN is used when the SQLite flag is on and no DSN was supplied.
const DefaultSQLiteDSN = "file:storefront.db?_foreign_keys=on"

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
