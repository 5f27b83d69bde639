package config

// EnvPrefix is the envconfig prefix shared by every service binary.
const EnvPrefix = "autolane"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests,
// error messages).
const (
	EnvAppEnv            = "AUTOLANE_APP_ENV"
	EnvPort              = "AUTOLANE_APP_PORT"
	EnvDBDSN             = "AUTOLANE_DB_DSN"
	EnvDBHost            = "AUTOLANE_DB_HOST"
	EnvDBUser            = "AUTOLANE_DB_USER"
	EnvDBName            = "AUTOLANE_DB_NAME"
	EnvRedisURL          = "AUTOLANE_REDIS_URL"
	EnvGCPProjectID      = "AUTOLANE_GCP_PROJECT_ID"
	EnvPubSubDomainTopic = "AUTOLANE_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub   = "AUTOLANE_PUBSUB_DOMAIN_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
