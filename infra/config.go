package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Store struct {
		Driver string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Database struct {
		Host        string
		Port        string
		User        string
		Password    string
		Name        string
		SSLMode     string
		SQLitePath  string
		AutoMigrate bool
	}
	Auth struct {
		Secret          string
		CookieName      string
		BcryptCost      int
		PublicPrefixes  []string
		JanitorInterval time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

// LoadConfig reads configuration from environment variables and an optional
// config file in the working directory.
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("store.driver", DriverRedis)
	v.SetDefault("redis.host", "redis")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlitepath", "sessions.db")
	v.SetDefault("database.automigrate", true)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.cookiename", "session_token")
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.publicprefixes", []string{"/public"})
	v.SetDefault("auth.janitorinterval", 10*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// the original deployment used these names
	_ = v.BindEnv("redis.host", "REDIS_HOSTNAME", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")
	_ = v.BindEnv("database.sqlitepath", "SQLITE_PATH")
	_ = v.BindEnv("database.automigrate", "AUTO_MIGRATE")
	_ = v.BindEnv("auth.cookiename", "AUTH_COOKIE_NAME")
	_ = v.BindEnv("auth.bcryptcost", "AUTH_BCRYPT_COST")
	_ = v.BindEnv("auth.publicprefixes", "AUTH_PUBLIC_PREFIXES")
	_ = v.BindEnv("auth.janitorinterval", "AUTH_JANITOR_INTERVAL")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return fmt.Errorf("AUTH_SECRET environment variable not set")
	}
	if strings.TrimSpace(c.Auth.CookieName) == "" {
		return fmt.Errorf("auth cookie name must not be empty")
	}
	if c.Auth.CookieName == c.Auth.Secret {
		return fmt.Errorf("auth cookie name must differ from the signing secret")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Auth.JanitorInterval <= 0 {
		return fmt.Errorf("janitor interval must be positive")
	}
	switch c.Store.Driver {
	case DriverRedis, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverPostgres && c.Database.Name == "" {
		return fmt.Errorf("DB_NAME environment variable not set")
	}
	return nil
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
