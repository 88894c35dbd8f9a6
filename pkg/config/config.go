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
	Inventory    InventoryConfig
	ThreePack    ThreePackConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"NATHAN_APP_ENV" required:"true"`
	Port         string `envconfig:"NATHAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NATHAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NATHAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NATHAN_DB_DSN"`
	Driver string `envconfig:"NATHAN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NATHAN_DB_HOST"`
	LegacyPort     int    `envconfig:"NATHAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NATHAN_DB_USER"`
	LegacyPassword string `envconfig:"NATHAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"NATHAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"NATHAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NATHAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NATHAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NATHAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NATHAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NATHAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NATHAN_REDIS_ADDR"`
	Password     string        `envconfig:"NATHAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"NATHAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NATHAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NATHAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NATHAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NATHAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NATHAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NATHAN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NATHAN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"NATHAN_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"NATHAN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"NATHAN_AUTO_MIGRATE" default:"false"`
}

type InventoryConfig struct {
	LowStockThreshold int `envconfig:"NATHAN_INVENTORY_LOW_STOCK_THRESHOLD" default:"10"`
}

type ThreePackConfig struct {
	UnitPrice string `envconfig:"NATHAN_THREE_PACK_UNIT_PRICE" default:"27.00"`
}

// RateLimitConfig throttles cart and checkout mutations per caller.
// A zero window or limit disables the limiter.
type RateLimitConfig struct {
	MutationLimit  int           `envconfig:"NATHAN_RATE_LIMIT_MUTATION_LIMIT" default:"60"`
	MutationWindow time.Duration `envconfig:"NATHAN_RATE_LIMIT_MUTATION_WINDOW" default:"1m"`
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
