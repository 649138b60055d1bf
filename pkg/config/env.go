package config

// EnvPrefix is passed to envconfig. Fields carry their full variable name as the tag and envconfig
// falls back to the bare tag when the prefixed key is unset.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogWarnStack = "STOREFRONT_LOG_WARN_STACK"
	EnvCORSOrigins  = "STOREFRONT_CORS_ORIGINS"

	EnvDBDSN      = "STOREFRONT_DB_DSN"
	EnvDBDriver   = "STOREFRONT_DB_DRIVER"
	EnvDBHost     = "STOREFRONT_DB_HOST"
	EnvDBPort     = "STOREFRONT_DB_PORT"
	EnvDBUser     = "STOREFRONT_DB_USER"
	EnvDBPassword = "STOREFRONT_DB_PASSWORD"
	EnvDBName     = "STOREFRONT_DB_NAME"
	EnvDBSSLMode  = "STOREFRONT_DB_SSLMODE"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvSessionSecret = "STOREFRONT_SESSION_SECRET"
	EnvSessionIssuer = "STOREFRONT_SESSION_ISSUER"
	EnvSessionTTL    = "STOREFRONT_SESSION_TTL"

	EnvCronInterval     = "STOREFRONT_CRON_INTERVAL"
	EnvCartAbandonAfter = "STOREFRONT_CART_ABANDON_AFTER"
	EnvCartPurgeAfter   = "STOREFRONT_CART_PURGE_AFTER"

	EnvAutoMigrate = "STOREFRONT_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
