package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	Bids    BidPolicyConfig
	Worker  WorkerConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
	Cache   CacheConfig
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
	Env          string `envconfig:"AUTOLANE_APP_ENV" required:"true"`
	Port         string `envconfig:"AUTOLANE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUTOLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUTOLANE_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"AUTOLANE_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AUTOLANE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AUTOLANE_DB_DSN"`
	Driver string `envconfig:"AUTOLANE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUTOLANE_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOLANE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOLANE_DB_USER"`
	LegacyPassword string `envconfig:"AUTOLANE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOLANE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOLANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOLANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOLANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOLANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOLANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTOLANE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUTOLANE_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOLANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTOLANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTOLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BidPolicyConfig tunes the bid action policy exposed to the dashboard.
type BidPolicyConfig struct {
	UrgencyWindow   time.Duration `envconfig:"AUTOLANE_BID_URGENCY_WINDOW" default:"3h"`
	ActionWindow    time.Duration `envconfig:"AUTOLANE_BID_ACTION_RATE_WINDOW" default:"1m"`
	ActionLimit     int           `envconfig:"AUTOLANE_BID_ACTION_RATE_LIMIT" default:"10"`
	MinIncrementJPY int64         `envconfig:"AUTOLANE_BID_MIN_INCREMENT_JPY" default:"5000"`
}

// WorkerConfig tunes the background jobs that complete simulated
// external service requests.
type WorkerConfig struct {
	PollInterval       time.Duration `envconfig:"AUTOLANE_WORKER_POLL_INTERVAL" default:"30s"`
	InspectionLatency  time.Duration `envconfig:"AUTOLANE_WORKER_INSPECTION_LATENCY" default:"2m"`
	TranslationLatency time.Duration `envconfig:"AUTOLANE_WORKER_TRANSLATION_LATENCY" default:"1m"`
	NotificationTTL    time.Duration `envconfig:"AUTOLANE_WORKER_NOTIFICATION_TTL" default:"2160h"`
	BatchSize          int           `envconfig:"AUTOLANE_WORKER_BATCH_SIZE" default:"50"`
}

type CacheConfig struct {
	AuctionListTTL time.Duration `envconfig:"AUTOLANE_CACHE_AUCTION_LIST_TTL" default:"30s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AUTOLANE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"AUTOLANE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AUTOLANE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"AUTOLANE_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"AUTOLANE_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AUTOLANE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AUTOLANE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AUTOLANE_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
