package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DBDriver is "postgres" or "sqlite".
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration. Redis is optional; without it device ingestion is
	// not rate limited.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Object storage for food images, optional
	S3Bucket  string
	AWSRegion string

	LogLevel string

	// Browser origins allowed by CORS
	CORSOrigins []string

	Prediction      PredictionConfig
	DeviceRateLimit DeviceRateLimitConfig
}

// PredictionConfig holds the forecasting tunables, read from GLUCOSE_* variables.
type PredictionConfig struct {
	ForecastURL     string        `envconfig:"FORECAST_URL" default:"http://localhost:5000/predict"`
	ForecastTimeout time.Duration `envconfig:"FORECAST_TIMEOUT" default:"30s"`
	WindowSize      int           `envconfig:"WINDOW_SIZE" default:"30"`
	MinHistory      int           `envconfig:"MIN_HISTORY" default:"5"`
	DefaultHorizon  time.Duration `envconfig:"DEFAULT_HORIZON" default:"1h"`
	Workers         int           `envconfig:"DISPATCH_WORKERS" default:"4"`
	QueueSize       int           `envconfig:"DISPATCH_QUEUE" default:"256"`
}

// DeviceRateLimitConfig bounds requests per device-owning user.
type DeviceRateLimitConfig struct {
	Limit  int           `envconfig:"DEVICE_RATE_LIMIT" default:"120"`
	Window time.Duration `envconfig:"DEVICE_RATE_WINDOW" default:"1m"`
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		// A missing .env is fine, the process environment still applies.
		_ = godotenv.Load()
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	cfg.CORSOrigins = splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://frontend:5173"))

	if err := envconfig.Process("glucose", &cfg.Prediction); err != nil {
		return nil, fmt.Errorf("failed to load prediction configuration: %w", err)
	}
	if err := envconfig.Process("glucose", &cfg.DeviceRateLimit); err != nil {
		return nil, fmt.Errorf("failed to load rate limit configuration: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) {
	cfg.ServerPort = getenv("SERVER_PORT", "8080")
	cfg.ServerHost = getenv("SERVER_HOST", "0.0.0.0")
	cfg.DBDriver = getenv("DB_DRIVER", "postgres")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getenv("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getenv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getenv("SQLITE_PATH", "glucowise.db")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getenv("REDIS_PORT", "6379")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.LogLevel = getenv("LOG_LEVEL", "info")

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")
	cfg.RedisDB = 0
}

// loadDevConfig reads environment variables first and falls back to Docker
// secrets for anything unset.
func loadDevConfig(cfg *Config) {
	cfg.ServerPort = lookup("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = lookup("SERVER_HOST", "server_host", "localhost")
	cfg.DBDriver = lookup("DB_DRIVER", "db_driver", "postgres")
	cfg.DBHost = lookup("DB_HOST", "db_host", "localhost")
	cfg.DBPort = lookup("DB_PORT", "db_port", "5432")
	cfg.DBUser = lookup("DB_USER", "db_user", "postgres")
	cfg.DBPassword = lookup("DB_PASSWORD", "db_password", "")
	cfg.DBName = lookup("DB_NAME", "db_name", "glucowise")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "db_ssl_mode", "disable")
	cfg.SQLitePath = getenv("SQLITE_PATH", "glucowise.db")
	cfg.RedisHost = lookup("REDIS_HOST", "redis_host", "")
	cfg.RedisPort = lookup("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = lookup("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = lookup("REDIS_URL", "redis_url", "")
	cfg.RedisDB = atoi(os.Getenv("REDIS_DB"))
	cfg.JWTSecret = lookup("JWT_SECRET", "jwt_secret", "")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.LogLevel = getenv("LOG_LEVEL", "debug")
}

// loadProdConfig loads configuration for production. Credentials come only
// from Docker secrets.
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = lookup("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = lookup("SERVER_HOST", "server_host", "0.0.0.0")
	cfg.DBDriver = "postgres"
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = lookup("DB_PORT", "db_port", "5432")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "db_ssl_mode", "require")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = lookup("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.RedisDB = 0
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	cfg.LogLevel = getenv("LOG_LEVEL", "info")
}

// PostgresDSN builds the lib/pq style connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func lookup(envName, secretName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
