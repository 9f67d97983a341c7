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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Txn          TxnConfig
	Checkout     CheckoutConfig
	Credit       CreditConfig
	Pricing      PricingConfig
	Inventory    InventoryConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Sweeper      SweeperConfig
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
	Env          string `envconfig:"ERP_APP_ENV" required:"true"`
	Port         string `envconfig:"ERP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ERP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ERP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ERP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ERP_DB_DSN"`
	Driver string `envconfig:"ERP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ERP_DB_HOST"`
	LegacyPort     int    `envconfig:"ERP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ERP_DB_USER"`
	LegacyPassword string `envconfig:"ERP_DB_PASSWORD"`
	LegacyName     string `envconfig:"ERP_DB_NAME"`
	LegacySSLMode  string `envconfig:"ERP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ERP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ERP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ERP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ERP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ERP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ERP_REDIS_ADDR"`
	Password     string        `envconfig:"ERP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ERP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ERP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ERP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ERP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ERP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ERP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// TxnConfig tunes the transaction runner defaults.
type TxnConfig struct {
	Isolation      string        `envconfig:"ERP_TXN_ISOLATION" default:"read_committed"`
	MaxRetries     int           `envconfig:"ERP_TXN_MAX_RETRIES" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"ERP_TXN_RETRY_BASE_DELAY" default:"100ms"`
	RetryMaxDelay  time.Duration `envconfig:"ERP_TXN_RETRY_MAX_DELAY" default:"5s"`
	Timeout        time.Duration `envconfig:"ERP_TXN_TIMEOUT" default:"30s"`
}

type CheckoutConfig struct {
	CartTTL time.Duration `envconfig:"ERP_CHECKOUT_CART_TTL" default:"24h"`
}

type CreditConfig struct {
	ReservationTTL time.Duration `envconfig:"ERP_CREDIT_RESERVATION_TTL" default:"72h"`
}

type PricingConfig struct {
	TaxRatePercent string `envconfig:"ERP_TAX_RATE_PERCENT" default:"0"`
}

type InventoryConfig struct {
	ReservationTTL time.Duration `envconfig:"ERP_STOCK_RESERVATION_TTL" default:"72h"`
	StockCacheTTL  time.Duration `envconfig:"ERP_STOCK_CACHE_TTL" default:"30s"`
}

type RateLimitConfig struct {
	APILimit int64         `envconfig:"ERP_RATE_LIMIT_API" default:"120"`
	Window   time.Duration `envconfig:"ERP_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ERP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ERP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ERP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ERP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ERP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	CheckoutTopic        string `envconfig:"ERP_PUBSUB_CHECKOUT_TOPIC" default:"erp-checkout-events"`
	CheckoutSubscription string `envconfig:"ERP_PUBSUB_CHECKOUT_SUBSCRIPTION"`
	CreditTopic          string `envconfig:"ERP_PUBSUB_CREDIT_TOPIC" default:"erp-credit-events"`
	CreditSubscription   string `envconfig:"ERP_PUBSUB_CREDIT_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ERP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ERP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ERP_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SweeperConfig struct {
	Interval   time.Duration `envconfig:"ERP_SWEEPER_INTERVAL" default:"1m"`
	BatchSize  int           `envconfig:"ERP_SWEEPER_BATCH_SIZE" default:"100"`
	StaleAfter time.Duration `envconfig:"ERP_SWEEPER_STALE_AFTER" default:"30m"`
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
