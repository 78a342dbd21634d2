package config

const EnvPrefix = "DARKSTORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:darkstore.db?cache=shared&_foreign_keys=on"
)

const (
	EnvAppEnv   = "DARKSTORE_APP_ENV"
	EnvPort     = "DARKSTORE_APP_PORT"
	EnvLogLevel = "DARKSTORE_LOG_LEVEL"

	EnvDBDSN    = "DARKSTORE_DB_DSN"
	EnvDBDriver = "DARKSTORE_DB_DRIVER"
	EnvDBHost   = "DARKSTORE_DB_HOST"
	EnvDBPort   = "DARKSTORE_DB_PORT"
	EnvDBUser   = "DARKSTORE_DB_USER"
	EnvDBPass   = "DARKSTORE_DB_PASSWORD"
	EnvDBName   = "DARKSTORE_DB_NAME"

	EnvRedisURL = "DARKSTORE_REDIS_URL"

	EnvJWTSecret               = "DARKSTORE_JWT_SECRET"
	EnvJWTIssuer               = "DARKSTORE_JWT_ISSUER"
	EnvJWTExpMins              = "DARKSTORE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "DARKSTORE_REFRESH_TOKEN_TTL_MINUTES"
	EnvDashboardDefaultStoreID = "DARKSTORE_DASHBOARD_DEFAULT_STORE_ID"
	EnvCronInterval            = "DARKSTORE_CRON_INTERVAL"
	EnvUseSQLite               = "DARKSTORE_USE_SQLITE"
	EnvCORSOrigins             = "DARKSTORE_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
