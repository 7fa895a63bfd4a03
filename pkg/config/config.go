package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Upstream      UpstreamConfig
	Redis         RedisConfig
	DB            DBConfig
	Cart          CartConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if cfg.Cart.Backend == CartBackendDB && cfg.DB.DSN == "" && !cfg.FeatureFlags.UseSQLite {
		return nil, fmt.Errorf("%s is required when the cart backend is %q", EnvDBDSN, CartBackendDB)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAXICOFFEE_APP_ENV" required:"true"`
	Port         string `envconfig:"MAXICOFFEE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MAXICOFFEE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAXICOFFEE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the remote order/catalog/identity API the
// storefront fronts.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"MAXICOFFEE_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"MAXICOFFEE_UPSTREAM_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAXICOFFEE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MAXICOFFEE_REDIS_ADDR"`
	Password     string        `envconfig:"MAXICOFFEE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAXICOFFEE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAXICOFFEE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAXICOFFEE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAXICOFFEE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAXICOFFEE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAXICOFFEE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN        string `envconfig:"MAXICOFFEE_DB_DSN"`
	SQLitePath string `envconfig:"MAXICOFFEE_SQLITE_PATH" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"MAXICOFFEE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAXICOFFEE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MAXICOFFEE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAXICOFFEE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// CartConfig selects which durable slot store holds persisted carts.
type CartConfig struct {
	Backend   string `envconfig:"MAXICOFFEE_CART_BACKEND" default:"redis"`
	KeyPrefix string `envconfig:"MAXICOFFEE_CART_KEY_PREFIX" default:"cart"`
}

func (c CartConfig) validate() error {
	switch c.Backend {
	case CartBackendRedis, CartBackendDB:
		return nil
	default:
		return fmt.Errorf("cart backend must be %q or %q, got %q", CartBackendRedis, CartBackendDB, c.Backend)
	}
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MAXICOFFEE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MAXICOFFEE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MAXICOFFEE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MAXICOFFEE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MAXICOFFEE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MAXICOFFEE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MAXICOFFEE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MAXICOFFEE_AUTO_MIGRATE" default:"false"`
}
