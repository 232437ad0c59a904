package config

const (
	EnvPrefix = "menuvivo"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "MENUVIVO_APP_ENV"
	EnvPort     = "MENUVIVO_APP_PORT"
	EnvDBDSN    = "MENUVIVO_DB_DSN"
	EnvDBHost   = "MENUVIVO_DB_HOST"
	EnvDBUser   = "MENUVIVO_DB_USER"
	EnvDBName   = "MENUVIVO_DB_NAME"
	EnvRedisURL = "MENUVIVO_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
