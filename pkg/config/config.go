package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QTYOFFERS_APP_ENV" required:"true"`
	Port         string `envconfig:"QTYOFFERS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QTYOFFERS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QTYOFFERS_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"QTYOFFERS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QTYOFFERS_DB_DSN"`
	Driver string `envconfig:"QTYOFFERS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QTYOFFERS_DB_HOST"`
	LegacyPort     int    `envconfig:"QTYOFFERS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QTYOFFERS_DB_USER"`
	LegacyPassword string `envconfig:"QTYOFFERS_DB_PASSWORD"`
	LegacyName     string `envconfig:"QTYOFFERS_DB_NAME"`
	LegacySSLMode  string `envconfig:"QTYOFFERS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QTYOFFERS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QTYOFFERS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QTYOFFERS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QTYOFFERS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QTYOFFERS_REDIS_URL"`
	Address      string        `envconfig:"QTYOFFERS_REDIS_ADDR"`
	Password     string        `envconfig:"QTYOFFERS_REDIS_PASSWORD"`
	DB           int           `envconfig:"QTYOFFERS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QTYOFFERS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QTYOFFERS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QTYOFFERS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QTYOFFERS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QTYOFFERS_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"QTYOFFERS_REDIS_KEY_PREFIX" default:"qo"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"QTYOFFERS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QTYOFFERS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QTYOFFERS_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"QTYOFFERS_AUTO_MIGRATE" default:"false"`
	OfferCache  bool `envconfig:"QTYOFFERS_FEATURE_OFFER_CACHE" default:"true"`
}

// PricingConfig tunes the quantity offer collaborators around the pricing engine.
type PricingConfig struct {
	CacheTTL time.Duration `envconfig:"QTYOFFERS_PRICING_CACHE_TTL" default:"10m"`
	// MaxApplications bounds how many times one recalculation pass may apply prices.
	MaxApplications int  `envconfig:"QTYOFFERS_PRICING_MAX_APPLICATIONS" default:"1"`
	AutoSubmit      bool `envconfig:"QTYOFFERS_STOREFRONT_AUTO_SUBMIT" default:"true"`
	DefaultQuantity int  `envconfig:"QTYOFFERS_ADMIN_DEFAULT_QUANTITY" default:"3"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
