package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Supported session stores
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// DefaultSessionSecret is used when SESSION_SECRET is unset. It is only
// acceptable outside release mode.
const DefaultSessionSecret = "default-secret-key-change-me"

// ErrDefaultSessionSecret is returned by Validate in release mode when
// SESSION_SECRET was not set.
var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set in release mode")

type Config struct {
	Port          string
	DBDriver      string
	DBPath        string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SessionStore  string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string
	GinMode       string
	LogLevel      string
	TemplateDir   string
	StaticDir     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	driver := getEnv("DB_DRIVER", DriverSQLite)

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      driver,
		DBPath:        getEnv("DB_PATH", "okr.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", defaultDBPort(driver)),
		DBUser:        getEnv("DB_USER", "okruser"),
		DBPassword:    getEnv("DB_PASSWORD", "okrpassword"),
		DBName:        getEnv("DB_NAME", "okr_tracker"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		SessionStore:  getEnv("SESSION_STORE", SessionStoreCookie),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		TemplateDir:   getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:     getEnv("STATIC_DIR", "web/static"),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// UsesDefaultSessionSecret reports whether sessions are signed with the
// built-in secret.
func (c *Config) UsesDefaultSessionSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// Validate rejects settings that are unsafe to run with.
func (c *Config) Validate() error {
	if c.IsProduction() && c.UsesDefaultSessionSecret() {
		return ErrDefaultSessionSecret
	}
	return nil
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case DriverSQLite:
		return c.DBPath, nil
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			c.DBPort,
			c.DBName,
		), nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost,
			c.DBPort,
			c.DBUser,
			c.DBPassword,
			c.DBName,
			c.DBSSLMode,
		), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
}

// RedisAddr returns host:port for the session store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func defaultDBPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
