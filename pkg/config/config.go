package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every storefront environment variable.
const EnvPrefix = "exactmatch"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Cart snapshot backends.
const (
	CartBackendFile  = "file"
	CartBackendRedis = "redis"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Redis    RedisConfig
	OrdersDB OrdersDBConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	if cfg.Cart.Backend == CartBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("redis url or address is required when the cart backend is %q", CartBackendRedis)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EXACTMATCH_APP_ENV" default:"dev"`
	Port         string `envconfig:"EXACTMATCH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EXACTMATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EXACTMATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the external catalog API that owns all battery data.
type CatalogConfig struct {
	BaseURL string        `envconfig:"EXACTMATCH_CATALOG_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"EXACTMATCH_CATALOG_TIMEOUT" default:"10s"`
}

// CartConfig selects where cart snapshots are persisted between sessions.
type CartConfig struct {
	Backend string `envconfig:"EXACTMATCH_CART_BACKEND" default:"file"`
	Slot    string `envconfig:"EXACTMATCH_CART_SLOT" default:"exactmatch_cart"`
	Path    string `envconfig:"EXACTMATCH_CART_PATH" default:"exactmatch_cart.json"`
}

func (c CartConfig) validate() error {
	switch c.Backend {
	case CartBackendFile, CartBackendRedis:
		return nil
	default:
		return fmt.Errorf("unknown cart backend %q", c.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"EXACTMATCH_REDIS_URL"`
	Address      string        `envconfig:"EXACTMATCH_REDIS_ADDR"`
	Password     string        `envconfig:"EXACTMATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"EXACTMATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EXACTMATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EXACTMATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EXACTMATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EXACTMATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EXACTMATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// OrdersDBConfig locates the local order archive.
type OrdersDBConfig struct {
	Path string `envconfig:"EXACTMATCH_ORDERS_DB_PATH" default:"exactmatch_orders.db"`
}

// CheckoutConfig tunes the simulated M-Pesa payment step. RequiredFields is
// configurable because the legacy checkout validated a different field set
// than the form it rendered.
type CheckoutConfig struct {
	RequiredFields  []string      `envconfig:"EXACTMATCH_CHECKOUT_REQUIRED_FIELDS" default:"name,email,phone,mpesa_phone"`
	ProcessingDelay time.Duration `envconfig:"EXACTMATCH_CHECKOUT_PROCESSING_DELAY" default:"2s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EXACTMATCH_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
