package config

const (
	EnvPrefix = "BULKBITE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "BULKBITE_APP_ENV"
	EnvPort   = "BULKBITE_APP_PORT"

	EnvDBDSN  = "BULKBITE_DB_DSN"
	EnvDBHost = "BULKBITE_DB_HOST"
	EnvDBUser = "BULKBITE_DB_USER"
	EnvDBName = "BULKBITE_DB_NAME"

	EnvRedisURL = "BULKBITE_REDIS_URL"

	EnvJWTSecret              = "BULKBITE_JWT_SECRET"
	EnvJWTIssuer              = "BULKBITE_JWT_ISSUER"
	EnvJWTExpMins             = "BULKBITE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BULKBITE_REFRESH_TOKEN_TTL_MINUTES"

	EnvPolicyDeliveryCharge = "BULKBITE_POLICY_DELIVERY_CHARGE"
	EnvPolicyTaxRatePercent = "BULKBITE_POLICY_TAX_RATE_PERCENT"

	EnvGCPProjectID = "BULKBITE_GCP_PROJECT_ID"

	EnvPubSubDomainTopic = "BULKBITE_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub   = "BULKBITE_PUBSUB_DOMAIN_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
