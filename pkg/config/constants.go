package config

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "ERP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "ERP_APP_ENV"
	EnvPort     = "ERP_APP_PORT"
	EnvRedisURL = "ERP_REDIS_URL"

	EnvDBDSN  = "ERP_DB_DSN"
	EnvDBHost = "ERP_DB_HOST"
	EnvDBUser = "ERP_DB_USER"
	EnvDBName = "ERP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
