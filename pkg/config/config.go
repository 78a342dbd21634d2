package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Dashboard     DashboardConfig
	Cron          CronConfig
	Avatar        AvatarConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DARKSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"DARKSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DARKSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DARKSTORE_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"DARKSTORE_LOG_FORMAT" default:"json"`
	// Comma separated; empty means localhost:3000 only.
	CORSOrigins []string `envconfig:"DARKSTORE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DARKSTORE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DARKSTORE_DB_DSN"`
	Driver string `envconfig:"DARKSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DARKSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"DARKSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DARKSTORE_DB_USER"`
	LegacyPassword string `envconfig:"DARKSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"DARKSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"DARKSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DARKSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DARKSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DARKSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DARKSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// Statements at or above this duration are logged; zero disables.
	SlowQueryThreshold time.Duration `envconfig:"DARKSTORE_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"DARKSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DARKSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"DARKSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DARKSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DARKSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DARKSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DARKSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DARKSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DARKSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
	// KeyPrefix namespaces every key this service writes.
	KeyPrefix string `envconfig:"DARKSTORE_REDIS_KEY_PREFIX" default:"ds"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DARKSTORE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DARKSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DARKSTORE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DARKSTORE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
	// CookieSecure toggles the Secure attribute on the auth cookies.
	CookieSecure bool `envconfig:"DARKSTORE_JWT_COOKIE_SECURE" default:"true"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DARKSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DARKSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DARKSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DARKSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DARKSTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"DARKSTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"DARKSTORE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"DARKSTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"DARKSTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"DARKSTORE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"DARKSTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type DashboardConfig struct {
	DefaultStoreID string `envconfig:"DARKSTORE_DASHBOARD_DEFAULT_STORE_ID" default:"store1"`
	SeedDemoData   bool   `envconfig:"DARKSTORE_DASHBOARD_SEED_DEMO_DATA" default:"true"`
	SnapshotKey    string `envconfig:"DARKSTORE_DASHBOARD_SNAPSHOT_KEY" default:"dashboard"`
}

type CronConfig struct {
	Enabled    bool          `envconfig:"DARKSTORE_CRON_ENABLED" default:"true"`
	Interval   time.Duration `envconfig:"DARKSTORE_CRON_INTERVAL" default:"5m"`
	LockKey    string        `envconfig:"DARKSTORE_CRON_LOCK_KEY" default:"cron:dashboard"`
	LockTTL    time.Duration `envconfig:"DARKSTORE_CRON_LOCK_TTL" default:"4m"`
	JobTimeout time.Duration `envconfig:"DARKSTORE_CRON_JOB_TIMEOUT" default:"1m"`
}

type AvatarConfig struct {
	Dir         string `envconfig:"DARKSTORE_AVATAR_DIR" default:"uploads/avatars"`
	PublicURL   string `envconfig:"DARKSTORE_AVATAR_PUBLIC_URL" default:"/uploads/avatars"`
	MaxUploadMB int    `envconfig:"DARKSTORE_AVATAR_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes returns the avatar size ceiling in bytes.
func (a AvatarConfig) MaxUploadBytes() int64 {
	if a.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return int64(a.MaxUploadMB) << 20
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DARKSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DARKSTORE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
