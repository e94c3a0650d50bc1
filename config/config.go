package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageS3       = "s3"
	StorageMongo    = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Session storage backend, one of the Storage* constants
	StorageDriver string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// MongoDB configuration
	MongoURI string
	MongoDB  string

	// S3 configuration
	S3Bucket  string
	S3Prefix  string
	AWSRegion string

	// Spoonacular configuration
	SpoonacularBaseURL string
	SpoonacularTimeout time.Duration
	ResultLimit        int

	// Searches allowed per session per hour
	RateLimitPerHour int

	// Sessions one client IP may create per hour
	SessionRateLimitPerHour int

	// Signs session tokens
	SessionSecret string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{}
	if err := loadEnvConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load secrets based on environment
	switch env {
	case CI:
		loadCISecrets(cfg)
	case Development, Test:
		loadDevSecrets(cfg)
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads the non-secret settings, which come from environment
// variables in every environment
func loadEnvConfig(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory))

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "flavorfind")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "flavorfind.db")

	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.MongoDB = getEnv("MONGO_DB", "flavorfind")

	cfg.S3Bucket = getEnv("S3_BUCKET_NAME", "flavorfind-sessions")
	cfg.S3Prefix = getEnv("S3_PREFIX", "sessions/")
	cfg.AWSRegion = os.Getenv("AWS_REGION")

	cfg.SpoonacularBaseURL = getEnv("SPOONACULAR_BASE_URL", "https://api.spoonacular.com")

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return err
	}
	if cfg.ResultLimit, err = getEnvInt("RESULT_LIMIT", 12); err != nil {
		return err
	}
	if cfg.RateLimitPerHour, err = getEnvInt("RATE_LIMIT_PER_HOUR", 150); err != nil {
		return err
	}
	if cfg.SessionRateLimitPerHour, err = getEnvInt("SESSION_RATE_LIMIT_PER_HOUR", 20); err != nil {
		return err
	}
	timeout := getEnv("SPOONACULAR_TIMEOUT", "30s")
	if cfg.SpoonacularTimeout, err = time.ParseDuration(timeout); err != nil {
		return fmt.Errorf("invalid SPOONACULAR_TIMEOUT %q: %w", timeout, err)
	}

	return nil
}

// loadCISecrets loads secrets for CI using ONLY environment variables
func loadCISecrets(cfg *Config) {
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
}

// loadDevSecrets prefers Docker secrets and falls back to environment
// variables so a plain .env file is enough for local work
func loadDevSecrets(cfg *Config) {
	cfg.DBPassword = firstNonEmpty(readSecret("db_password"), os.Getenv("DB_PASSWORD"))
	cfg.RedisPassword = firstNonEmpty(readSecret("redis_password"), os.Getenv("REDIS_PASSWORD"))
	cfg.SessionSecret = firstNonEmpty(readSecret("session_secret"), os.Getenv("SESSION_SECRET"))
}

// loadProdSecrets loads secrets for production using ONLY Docker secrets
func loadProdSecrets(cfg *Config) {
	cfg.DBPassword = readSecret("db_password")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.SessionSecret = readSecret("session_secret")
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

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
