package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from an optional YAML file and the environment.
type Config struct {
	AppEnv       string `yaml:"app_env"`
	IsProduction bool   `yaml:"-"`
	ProdOrigins  string `yaml:"prod_origins"`
	HTTPAddr     string `yaml:"http_addr"`
	DBDSN        string `yaml:"db_dsn"`

	Log   LogConfig   `yaml:"log"`
	Redis RedisConfig `yaml:"redis"`
	API   APIConfig   `yaml:"api"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// RedisConfig configures the lookup cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// APIConfig holds HTTP API limits.
type APIConfig struct {
	MaxPageSize    int     `yaml:"max_page_size"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	MetricsEnabled bool    `yaml:"metrics_enabled"`
}

func defaults() *Config {
	return &Config{
		AppEnv:   "dev",
		HTTPAddr: ":8080",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		API: APIConfig{
			MaxPageSize:    100,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			MetricsEnabled: true,
		},
	}
}

// Load loads configuration from .env (optional), then CONFIG_FILE (optional YAML),
// then environment variables. Later sources override earlier ones.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING
	return cfg, nil
}

// loadFile decodes a YAML file on top of cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", cfg.ProdOrigins)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = getEnvAsInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if v := getEnv("CACHE_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.Redis.TTL = ttl
	}

	if cfg.API.MaxPageSize, err = getEnvAsInt("MAX_PAGE_SIZE", cfg.API.MaxPageSize); err != nil {
		return fmt.Errorf("invalid MAX_PAGE_SIZE: %w", err)
	}
	if cfg.API.RateLimitRPS, err = getEnvAsFloat("RATE_LIMIT_RPS", cfg.API.RateLimitRPS); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.API.RateLimitBurst, err = getEnvAsInt("RATE_LIMIT_BURST", cfg.API.RateLimitBurst); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED: %w", err)
		}
		cfg.API.MetricsEnabled = enabled
	}

	return nil
}

func (c *Config) validate() error {
	// Database DSN is required
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("max page size must be positive, got %d", c.API.MaxPageSize)
	}
	return nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}

	return val, nil
}
