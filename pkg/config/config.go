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
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Locations     LocationsConfig
	Bootstrap     BootstrapConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Locations.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"INVENTARIO_APP_ENV" required:"true"`
	Port            string        `envconfig:"INVENTARIO_APP_PORT" default:"10000"`
	LogLevel        string        `envconfig:"INVENTARIO_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"INVENTARIO_LOG_WARN_STACK" default:"false"`
	LogFormat       string        `envconfig:"INVENTARIO_LOG_FORMAT"`
	ShutdownTimeout time.Duration `envconfig:"INVENTARIO_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"INVENTARIO_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"INVENTARIO_DB_DSN"`
	Driver string `envconfig:"INVENTARIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INVENTARIO_DB_HOST"`
	LegacyPort     int    `envconfig:"INVENTARIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INVENTARIO_DB_USER"`
	LegacyPassword string `envconfig:"INVENTARIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"INVENTARIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"INVENTARIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INVENTARIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENTARIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTARIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENTARIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DBDriverSQLite, "sqlite3":
		return true
	}
	return false
}

type RedisConfig struct {
	URL          string        `envconfig:"INVENTARIO_REDIS_URL"`
	Address      string        `envconfig:"INVENTARIO_REDIS_ADDR"`
	Password     string        `envconfig:"INVENTARIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"INVENTARIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INVENTARIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INVENTARIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INVENTARIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INVENTARIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INVENTARIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	Secret       string        `envconfig:"INVENTARIO_SESSION_SECRET" required:"true"`
	Issuer       string        `envconfig:"INVENTARIO_SESSION_ISSUER" default:"inventario"`
	IdleTTL      time.Duration `envconfig:"INVENTARIO_SESSION_IDLE_TTL" default:"12h"`
	MaxAge       time.Duration `envconfig:"INVENTARIO_SESSION_MAX_AGE" default:"24h"`
	CookieName   string        `envconfig:"INVENTARIO_SESSION_COOKIE_NAME" default:"inventario_session"`
	CookieSecure bool          `envconfig:"INVENTARIO_SESSION_COOKIE_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"INVENTARIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"INVENTARIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"INVENTARIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"INVENTARIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"INVENTARIO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"INVENTARIO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"INVENTARIO_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"INVENTARIO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	TrustProxyHeaders  bool          `envconfig:"INVENTARIO_AUTH_RATE_LIMIT_TRUST_PROXY_HEADERS" default:"false"`
}

// LocationsConfig lists the regional sites inventory is partitioned by.
type LocationsConfig struct {
	Codes  []string          `envconfig:"INVENTARIO_LOCATIONS" default:"GDL,SL,SLP,EDOMEX,MANZ,AGUASCALIENTES"`
	Labels map[string]string `envconfig:"INVENTARIO_LOCATION_LABELS" default:"GDL:Guadalajara,SL:San Luis,SLP:Silao,EDOMEX:Estado de México,MANZ:Manzanillo,AGUASCALIENTES:Aguascalientes"`
}

func (l LocationsConfig) validate() error {
	if len(l.Codes) == 0 {
		return fmt.Errorf("%s must list at least one location", EnvLocations)
	}
	seen := make(map[string]struct{}, len(l.Codes))
	for _, code := range l.Codes {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if normalized == "" {
			return fmt.Errorf("%s contains an empty location", EnvLocations)
		}
		if _, dup := seen[normalized]; dup {
			return fmt.Errorf("%s lists %q twice", EnvLocations, normalized)
		}
		seen[normalized] = struct{}{}
	}
	return nil
}

// BootstrapConfig holds the credentials of the admin seeded into an empty user table.
// Operators must rotate the password right after the first boot.
type BootstrapConfig struct {
	AdminUsername string `envconfig:"INVENTARIO_BOOTSTRAP_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"INVENTARIO_BOOTSTRAP_ADMIN_PASSWORD" default:"admin123"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
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
