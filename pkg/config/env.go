package config

// EnvPrefix is the envconfig prefix shared by all services.
const EnvPrefix = "nathan"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "NATHAN_DB_DSN"
	EnvDBHost = "NATHAN_DB_HOST"
	EnvDBUser = "NATHAN_DB_USER"
	EnvDBName = "NATHAN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
