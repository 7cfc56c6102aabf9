package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MINPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "MINPOS_APP_ENV"
	EnvPort                   = "MINPOS_APP_PORT"
	EnvDBDSN                  = "MINPOS_DB_DSN"
	EnvDBHost                 = "MINPOS_DB_HOST"
	EnvDBUser                 = "MINPOS_DB_USER"
	EnvDBName                 = "MINPOS_DB_NAME"
	EnvRedisURL               = "MINPOS_REDIS_URL"
	EnvJWTSecret              = "MINPOS_JWT_SECRET"
	EnvJWTIssuer              = "MINPOS_JWT_ISSUER"
	EnvJWTExpMins             = "MINPOS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MINPOS_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "MINPOS_GCP_PROJECT_ID"
	EnvGCSBucket              = "MINPOS_GCS_BUCKET_NAME"
	EnvReportTimeZone         = "MINPOS_APP_REPORT_TIMEZONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Checkout      CheckoutConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env            string `envconfig:"MINPOS_APP_ENV" required:"true"`
	Port           string `envconfig:"MINPOS_APP_PORT" required:"true"`
	LogLevel       string `envconfig:"MINPOS_LOG_LEVEL" default:"info"`
	LogWarnStack   bool   `envconfig:"MINPOS_LOG_WARN_STACK" default:"false"`
	ReportTimeZone string `envconfig:"MINPOS_APP_REPORT_TIMEZONE" default:"Asia/Yangon"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ReportLocation resolves the timezone used to bound daily sales reports.
func (a AppConfig) ReportLocation() (*time.Location, error) {
	if a.ReportTimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.ReportTimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading report timezone %q: %w", a.ReportTimeZone, err)
	}
	return loc, nil
}

type DBConfig struct {
	DSN    string `envconfig:"MINPOS_DB_DSN"`
	Driver string `envconfig:"MINPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MINPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"MINPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MINPOS_DB_USER"`
	LegacyPassword string `envconfig:"MINPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MINPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MINPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MINPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MINPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MINPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MINPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MINPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MINPOS_REDIS_ADDR"`
	Password     string        `envconfig:"MINPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MINPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MINPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MINPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MINPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MINPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MINPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MINPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MINPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MINPOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MINPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MINPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MINPOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MINPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MINPOS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MINPOS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MINPOS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MINPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MINPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MINPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MINPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MINPOS_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MINPOS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MINPOS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MINPOS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MINPOS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName  string `envconfig:"MINPOS_GCS_BUCKET_NAME"`
	MaxUploadMB int    `envconfig:"MINPOS_GCS_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	SalesTopic        string `envconfig:"MINPOS_PUBSUB_SALES_TOPIC" default:"minpos-sale-events"`
	SalesSubscription string `envconfig:"MINPOS_PUBSUB_SALES_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MINPOS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MINPOS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MINPOS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CheckoutConfig struct {
	LockTTL time.Duration `envconfig:"MINPOS_CHECKOUT_LOCK_TTL" default:"30s"`
	CartTTL time.Duration `envconfig:"MINPOS_CART_TTL" default:"24h"`
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
