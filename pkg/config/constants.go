package config

const EnvPrefix = "INVENTARIO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:inventario.db?_foreign_keys=on"
)

const (
	EnvAppEnv  = "INVENTARIO_APP_ENV"
	EnvPort    = "INVENTARIO_APP_PORT"
	EnvLogLvl  = "INVENTARIO_LOG_LEVEL"
	EnvDBDSN   = "INVENTARIO_DB_DSN"
	EnvDBDrv   = "INVENTARIO_DB_DRIVER"
	EnvDBHost  = "INVENTARIO_DB_HOST"
	EnvDBUser  = "INVENTARIO_DB_USER"
	EnvDBName  = "INVENTARIO_DB_NAME"
	EnvRedis   = "INVENTARIO_REDIS_URL"
	EnvSecret  = "INVENTARIO_SESSION_SECRET"
	EnvIdleTTL = "INVENTARIO_SESSION_IDLE_TTL"

	EnvLocations      = "INVENTARIO_LOCATIONS"
	EnvLocationLabels = "INVENTARIO_LOCATION_LABELS"

	EnvBootstrapUsername = "INVENTARIO_BOOTSTRAP_ADMIN_USERNAME"
	EnvBootstrapPassword = "INVENTARIO_BOOTSTRAP_ADMIN_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
