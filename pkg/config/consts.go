package config

const EnvPrefix = "MAXICOFFEE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CartBackendRedis = "redis"
	CartBackendDB    = "db"
)

// Env var names used by tests and operational tooling.
const (
	EnvAppEnv          = "MAXICOFFEE_APP_ENV"
	EnvPort            = "MAXICOFFEE_APP_PORT"
	EnvUpstreamBaseURL = "MAXICOFFEE_UPSTREAM_BASE_URL"
	EnvRedisURL        = "MAXICOFFEE_REDIS_URL"
	EnvDBDSN           = "MAXICOFFEE_DB_DSN"
	EnvCartBackend     = "MAXICOFFEE_CART_BACKEND"
)
