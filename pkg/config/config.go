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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	CORS          CORSConfig
	Upload        UploadConfig
	AuthRateLimit AuthRateLimitConfig
	Seed          SeedConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"LEADDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"LEADDESK_APP_PORT" default:"4000"`
	LogLevel     string `envconfig:"LEADDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEADDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LEADDESK_DB_DSN"`
	Driver string `envconfig:"LEADDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LEADDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"LEADDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEADDESK_DB_USER"`
	LegacyPassword string `envconfig:"LEADDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEADDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEADDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LEADDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEADDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEADDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEADDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded sqlite driver is selected.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"LEADDESK_REDIS_URL"`
	Address      string        `envconfig:"LEADDESK_REDIS_ADDR"`
	Password     string        `envconfig:"LEADDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEADDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEADDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEADDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEADDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEADDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEADDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"LEADDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LEADDESK_JWT_ISSUER" default:"leaddesk"`
	ExpirationMinutes int    `envconfig:"LEADDESK_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LEADDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LEADDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LEADDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LEADDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LEADDESK_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LEADDESK_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type UploadConfig struct {
	Dir         string        `envconfig:"LEADDESK_UPLOAD_DIR" default:"uploads"`
	MaxUploadMB int           `envconfig:"LEADDESK_MAX_UPLOAD_MB" default:"10"`
	Retention   time.Duration `envconfig:"LEADDESK_UPLOAD_RETENTION" default:"1h"`
}

// MaxBytes returns the multipart body cap in bytes.
func (u UploadConfig) MaxBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 0
	}
	return int64(u.MaxUploadMB) << 20
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LEADDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"LEADDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LEADDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// SeedConfig holds the first administrator created by cmd/seed-admin.
type SeedConfig struct {
	AdminEmail    string `envconfig:"LEADDESK_ADMIN_EMAIL" default:"admin@example.com"`
	AdminName     string `envconfig:"LEADDESK_ADMIN_NAME" default:"Admin"`
	AdminMobile   string `envconfig:"LEADDESK_ADMIN_MOBILE" default:"+10000000000"`
	AdminPassword string `envconfig:"LEADDESK_ADMIN_PASSWORD" default:"Admin@123"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"LEADDESK_CRON_INTERVAL" default:"15m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LEADDESK_AUTO_MIGRATE" default:"false"`
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
