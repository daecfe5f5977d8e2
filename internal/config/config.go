package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `mapstructure:"name"`
	Env                   string `mapstructure:"env"`
	Host                  string `mapstructure:"host"`
	Port                  string `mapstructure:"port"`
	Version               string `mapstructure:"version"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	// APIBaseURL is where the HTML views reach the REST API.
	APIBaseURL string `mapstructure:"api_base_url"`
}

// DatabaseConfig holds DB connection values.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	URL            string `mapstructure:"url"`
	MaxConns       int32  `mapstructure:"max_conns"`
	MinConns       int32  `mapstructure:"min_conns"`
	RunMigrations  bool   `mapstructure:"run_migrations"`
	ConnMaxIdleSec int32  `mapstructure:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `mapstructure:"conn_max_life_seconds"`
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret"`
	TokenTTLMinutes   int    `mapstructure:"token_ttl_minutes"`
	AdminUsername     string `mapstructure:"admin_username"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
	BcryptCost        int    `mapstructure:"bcrypt_cost"`
}

// Enabled reports whether mutating API calls require a bearer token.
func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.AdminPasswordHash) != ""
}

// Load reads configuration from .env, an optional CONFIG_FILE and environment
// variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindAliases(v)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "department-app")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.request_timeout_seconds", 30)
	v.SetDefault("app.api_base_url", "")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.run_migrations", true)
	v.SetDefault("database.conn_max_idle_seconds", 30)
	v.SetDefault("database.conn_max_life_seconds", 300)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "department_app:changes")

	v.SetDefault("logger.level", "info")

	v.SetDefault("auth.jwt_secret", "dev-secret")
	v.SetDefault("auth.token_ttl_minutes", 60)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.bcrypt_cost", 12)
}

// bindAliases keeps the conventional variable names working next to the
// dotted keys viper derives automatically.
func bindAliases(v *viper.Viper) {
	_ = v.BindEnv("database.url", "DATABASE_URL", "POSTGRES_DSN")
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("app.request_timeout_seconds", "HTTP_REQUEST_TIMEOUT_SECONDS")
}

func (c *Config) finalize() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL required for postgres driver")
		}
	case DriverSQLite:
		if c.Database.URL == "" {
			c.Database.URL = "file:department_app.db"
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	if c.App.APIBaseURL == "" {
		c.App.APIBaseURL = fmt.Sprintf("http://127.0.0.1:%s", c.App.Port)
	}
	c.App.APIBaseURL = strings.TrimRight(c.App.APIBaseURL, "/")
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the lifetime of issued admin tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}
