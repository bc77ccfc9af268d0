package config

const (
	EnvPrefix = "QTYOFFERS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "QTYOFFERS_APP_ENV"
	EnvPort      = "QTYOFFERS_APP_PORT"
	EnvDBDSN     = "QTYOFFERS_DB_DSN"
	EnvDBHost    = "QTYOFFERS_DB_HOST"
	EnvDBUser    = "QTYOFFERS_DB_USER"
	EnvDBName    = "QTYOFFERS_DB_NAME"
	EnvRedisURL  = "QTYOFFERS_REDIS_URL"
	EnvJWTSecret = "QTYOFFERS_JWT_SECRET"
	EnvJWTIssuer = "QTYOFFERS_JWT_ISSUER"

	EnvPricingCacheTTL        = "QTYOFFERS_PRICING_CACHE_TTL"
	EnvPricingMaxApplications = "QTYOFFERS_PRICING_MAX_APPLICATIONS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
