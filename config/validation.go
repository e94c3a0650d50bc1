package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []error

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}
	if len(cfg.CORSOrigins) == 0 {
		errs = append(errs, ValidationError{"CORS_ORIGINS", "at least one origin is required"})
	}
	if cfg.SpoonacularBaseURL == "" {
		errs = append(errs, ValidationError{"SPOONACULAR_BASE_URL", "is required"})
	}
	if cfg.ResultLimit <= 0 || cfg.ResultLimit > 100 {
		errs = append(errs, ValidationError{"RESULT_LIMIT", "must be between 1 and 100"})
	}
	if cfg.RateLimitPerHour <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_HOUR", "must be positive"})
	}
	if cfg.SessionRateLimitPerHour <= 0 {
		errs = append(errs, ValidationError{"SESSION_RATE_LIMIT_PER_HOUR", "must be positive"})
	}
	if cfg.SpoonacularTimeout <= 0 {
		errs = append(errs, ValidationError{"SPOONACULAR_TIMEOUT", "must be positive"})
	}

	switch cfg.StorageDriver {
	case StorageMemory, StorageSQLite, StorageMongo:
	case StorageRedis:
		if cfg.RedisURL == "" && cfg.RedisHost == "" {
			errs = append(errs, ValidationError{"REDIS_HOST", "REDIS_HOST or REDIS_URL is required for redis storage"})
		}
	case StoragePostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_HOST", "DB_HOST and DB_NAME are required for postgres storage"})
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"db_password", secretMessage(env, "DB_PASSWORD")})
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for s3 storage"})
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.StorageDriver)})
	}

	// Session tokens are only safe with a real secret outside development
	if cfg.SessionSecret == "" && env != Development {
		errs = append(errs, ValidationError{"session_secret", secretMessage(env, "SESSION_SECRET")})
	}

	return errors.Join(errs...)
}

func secretMessage(env Environment, envVar string) string {
	if env == CI {
		return fmt.Sprintf("%s environment variable is required in CI environment", envVar)
	}
	return "secret is required"
}
