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
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Realtime     RealtimeConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Inventory    InventoryConfig
	Analytics    AnalyticsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Realtime.validate(cfg.GCP, cfg.PubSub); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvTimezone, err)
	}
	switch strings.ToLower(cfg.App.LogFormat) {
	case LogFormatJSON, LogFormatConsole:
	default:
		return nil, fmt.Errorf("invalid %s %q", EnvLogFormat, cfg.App.LogFormat)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CANTEEN_APP_ENV" required:"true"`
	Port         string `envconfig:"CANTEEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CANTEEN_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"CANTEEN_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"CANTEEN_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"CANTEEN_TIMEZONE" default:"UTC"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the canteen's wall-clock zone used for day, hour and weekday buckets.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

type DBConfig struct {
	DSN        string `envconfig:"CANTEEN_DB_DSN"`
	Driver     string `envconfig:"CANTEEN_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"CANTEEN_DB_SQLITE_PATH" default:"canteen.db"`

	LegacyHost     string `envconfig:"CANTEEN_DB_HOST"`
	LegacyPort     int    `envconfig:"CANTEEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CANTEEN_DB_USER"`
	LegacyPassword string `envconfig:"CANTEEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"CANTEEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"CANTEEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CANTEEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CANTEEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CANTEEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CANTEEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CANTEEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CANTEEN_REDIS_ADDR"`
	Password     string        `envconfig:"CANTEEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"CANTEEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CANTEEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CANTEEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CANTEEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CANTEEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CANTEEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CANTEEN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CANTEEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CANTEEN_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CANTEEN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type RateLimitConfig struct {
	Window      time.Duration `envconfig:"CANTEEN_RATE_LIMIT_WINDOW" default:"1m"`
	OrdersLimit int           `envconfig:"CANTEEN_RATE_LIMIT_ORDERS" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CANTEEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CANTEEN_AUTO_MIGRATE" default:"false"`
}

type RealtimeConfig struct {
	Transport     string        `envconfig:"CANTEEN_REALTIME_TRANSPORT" default:"redis"`
	Channel       string        `envconfig:"CANTEEN_REALTIME_CHANNEL" default:"changes"`
	BufferSize    int           `envconfig:"CANTEEN_REALTIME_BUFFER" default:"64"`
	PingInterval  time.Duration `envconfig:"CANTEEN_REALTIME_PING_INTERVAL" default:"30s"`
	WriteDeadline time.Duration `envconfig:"CANTEEN_REALTIME_WRITE_DEADLINE" default:"10s"`
	// BoardWindow is how long completed and cancelled orders stay on the kitchen board.
	BoardWindow time.Duration `envconfig:"CANTEEN_BOARD_WINDOW" default:"24h"`
}

func (r RealtimeConfig) validate(gcp GCPConfig, ps PubSubConfig) error {
	switch strings.ToLower(strings.TrimSpace(r.Transport)) {
	case RealtimeTransportMemory, RealtimeTransportRedis:
		return nil
	case RealtimeTransportPubSub:
		if gcp.ProjectID == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvGCPProjectID, EnvRealtimeTransport, RealtimeTransportPubSub)
		}
		if ps.ChangesTopic == "" || ps.ChangesSubscription == "" {
			return fmt.Errorf("%s and %s are required when %s=%s", EnvPubSubChangesTopic, EnvPubSubChangesSub, EnvRealtimeTransport, RealtimeTransportPubSub)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvRealtimeTransport, r.Transport)
	}
}

type GCPConfig struct {
	ProjectID       string `envconfig:"CANTEEN_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"CANTEEN_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	ChangesTopic        string `envconfig:"CANTEEN_PUBSUB_CHANGES_TOPIC" default:"canteen-changes"`
	ChangesSubscription string `envconfig:"CANTEEN_PUBSUB_CHANGES_SUBSCRIPTION"`
}

type InventoryConfig struct {
	LowStockFactor    float64 `envconfig:"CANTEEN_INVENTORY_LOW_FACTOR" default:"1.5"`
	ExpiryWarningDays int     `envconfig:"CANTEEN_INVENTORY_EXPIRY_WARNING_DAYS" default:"3"`
}

type AnalyticsConfig struct {
	CacheTTL time.Duration `envconfig:"CANTEEN_ANALYTICS_CACHE_TTL" default:"30s"`
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"CANTEEN_CRON_INTERVAL" default:"24h"`
	LockTTL                   time.Duration `envconfig:"CANTEEN_CRON_LOCK_TTL" default:"25h"`
	NotificationRetentionDays int           `envconfig:"CANTEEN_NOTIFICATION_RETENTION_DAYS" default:"30"`
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
