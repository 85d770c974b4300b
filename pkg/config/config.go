package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Policy        PolicyConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Policy.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BULKBITE_APP_ENV" required:"true"`
	Port         string `envconfig:"BULKBITE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BULKBITE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BULKBITE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BULKBITE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BULKBITE_DB_DSN"`
	Driver string `envconfig:"BULKBITE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BULKBITE_DB_HOST"`
	LegacyPort     int    `envconfig:"BULKBITE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BULKBITE_DB_USER"`
	LegacyPassword string `envconfig:"BULKBITE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BULKBITE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BULKBITE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BULKBITE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BULKBITE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BULKBITE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BULKBITE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BULKBITE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BULKBITE_REDIS_ADDR"`
	Password     string        `envconfig:"BULKBITE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BULKBITE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BULKBITE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BULKBITE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BULKBITE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BULKBITE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BULKBITE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BULKBITE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BULKBITE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BULKBITE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BULKBITE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BULKBITE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BULKBITE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BULKBITE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BULKBITE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BULKBITE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BULKBITE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BULKBITE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BULKBITE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BULKBITE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BULKBITE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BULKBITE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BULKBITE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BULKBITE_AUTO_MIGRATE" default:"false"`
}

// PolicyConfig carries the marketplace-wide pricing policy applied when a
// group's product orders are consolidated into a supplier order.
type PolicyConfig struct {
	DeliveryCharge string `envconfig:"BULKBITE_POLICY_DELIVERY_CHARGE" default:"50"`
	TaxRatePercent string `envconfig:"BULKBITE_POLICY_TAX_RATE_PERCENT" default:"5"`

	deliveryCharge decimal.Decimal
	taxRate        decimal.Decimal
}

// NewPolicyConfig parses an explicit pricing policy. Load applies the same
// validation to the env-sourced values.
func NewPolicyConfig(deliveryCharge, taxRatePercent string) (PolicyConfig, error) {
	p := PolicyConfig{DeliveryCharge: deliveryCharge, TaxRatePercent: taxRatePercent}
	if err := p.validate(); err != nil {
		return PolicyConfig{}, err
	}
	return p, nil
}

func (p *PolicyConfig) validate() error {
	charge, err := decimal.NewFromString(strings.TrimSpace(p.DeliveryCharge))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvPolicyDeliveryCharge, err)
	}
	if charge.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvPolicyDeliveryCharge)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(p.TaxRatePercent))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvPolicyTaxRatePercent, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvPolicyTaxRatePercent)
	}
	p.deliveryCharge = charge
	p.taxRate = rate
	return nil
}

// DeliveryChargeAmount returns the flat per-order delivery charge.
func (p PolicyConfig) DeliveryChargeAmount() decimal.Decimal {
	return p.deliveryCharge
}

// TaxRate returns the tax rate as a fraction (5 percent -> 0.05).
func (p PolicyConfig) TaxRate() decimal.Decimal {
	return p.taxRate.Div(decimal.NewFromInt(100))
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"BULKBITE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BULKBITE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"BULKBITE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BULKBITE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"BULKBITE_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"BULKBITE_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BULKBITE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BULKBITE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BULKBITE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	NotificationRetention time.Duration `envconfig:"BULKBITE_CRON_NOTIFICATION_RETENTION" default:"720h"`
	OutboxRetention       time.Duration `envconfig:"BULKBITE_CRON_OUTBOX_RETENTION" default:"168h"`
	LockTTL               time.Duration `envconfig:"BULKBITE_CRON_LOCK_TTL" default:"5m"`
	MetricsPort           string        `envconfig:"BULKBITE_CRON_METRICS_PORT" default:"9091"`
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
