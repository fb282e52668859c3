package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Log      LogConfig
	Console  ConsoleConfig
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host        string
	Port        int
	MetricsPort int // Port for Prometheus metrics HTTP server
}

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig represents the permission cache configuration
type CacheConfig struct {
	Enabled    bool
	Backend    string // "memory" or "redis"
	MaxEntries int    // LRU capacity of the memory backend
	TTLMinutes int    // Time-to-live for cache entries in minutes
	Redis      RedisConfig
}

// RedisConfig represents the redis cache backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string // logrus level name (debug, info, warn, error)
	Format string // "text" or "json"
}

// ConsoleConfig represents the operator console configuration
type ConsoleConfig struct {
	Email string // Email of the signed-in user
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree until we find go.mod
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// migrationsDir is the location of the SQL migrations relative to the project root
const migrationsDir = "internal/infrastructure/database/migrations/postgres"

// MigrationsPath returns the absolute path of the SQL migrations directory
func MigrationsPath() (string, error) {
	root, err := findProjectRoot()
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	return filepath.Join(root, migrationsDir), nil
}

// InitConfig initializes viper configuration
// env: environment name (dev, test, prod)
func InitConfig(env string) error {
	if env == "" {
		env = "dev"
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(projectRoot)

	// Optional file
	_ = viper.ReadInConfig()

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	setDefaults()
	return nil
}

func setDefaults() {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 50051)
	viper.SetDefault("METRICS_PORT", 9090)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 15432)
	viper.SetDefault("DB_USER", "erpr")
	viper.SetDefault("DB_NAME", "erpr_dev")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	viper.SetDefault("CACHE_MAX_ENTRIES", 1024)
	viper.SetDefault("CACHE_TTL_MINUTES", 5)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_PREFIX", "erpr:")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
}

// Load loads configuration from viper
func Load() (*Config, error) {
	// DB_PASSWORD is required for security
	dbPassword := viper.GetString("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required (set via environment variable or .env file)")
	}

	config := build()
	config.Database.Password = dbPassword
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadWithoutDatabase loads configuration for processes that never open the database
func LoadWithoutDatabase() (*Config, error) {
	config := build()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func build() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        viper.GetString("SERVER_HOST"),
			Port:        viper.GetInt("SERVER_PORT"),
			MetricsPort: viper.GetInt("METRICS_PORT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:    viper.GetBool("CACHE_ENABLED"),
			Backend:    strings.ToLower(viper.GetString("CACHE_BACKEND")),
			MaxEntries: viper.GetInt("CACHE_MAX_ENTRIES"),
			TTLMinutes: viper.GetInt("CACHE_TTL_MINUTES"),
			Redis: RedisConfig{
				Addr:     viper.GetString("REDIS_ADDR"),
				Password: viper.GetString("REDIS_PASSWORD"),
				DB:       viper.GetInt("REDIS_DB"),
				Prefix:   viper.GetString("REDIS_PREFIX"),
			},
		},
		Log: LogConfig{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
		},
		Console: ConsoleConfig{
			Email: viper.GetString("CONSOLE_EMAIL"),
		},
	}
}

var logLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}

// Validate rejects settings no component can honor
func (c *Config) Validate() error {
	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case CacheBackendMemory:
			if c.Cache.MaxEntries <= 0 {
				return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.Cache.MaxEntries)
			}
		case CacheBackendRedis:
			if c.Cache.Redis.Addr == "" {
				return fmt.Errorf("REDIS_ADDR is required for the redis cache backend")
			}
		default:
			return fmt.Errorf("unknown CACHE_BACKEND %q (want %s or %s)", c.Cache.Backend, CacheBackendMemory, CacheBackendRedis)
		}
	}

	if c.Log.Level != "" && !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("unknown LOG_LEVEL %q", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown LOG_FORMAT %q (want text or json)", c.Log.Format)
	}
	return nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
