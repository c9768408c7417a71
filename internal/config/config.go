package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	// Storage
	StorageBackend string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	DBMaxOpenConns int
	DBMaxIdleConns int

	// Application
	AppEnv   string
	LogLevel string

	// Query defaults applied by the request layer
	DefaultTopLimit    int
	DefaultReviewLimit int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "filmorate"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "filmorate_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "filmorate.db"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 100),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 20),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DefaultTopLimit:    getEnvInt("DEFAULT_TOP_LIMIT", 10),
		DefaultReviewLimit: getEnvInt("DEFAULT_REVIEW_LIMIT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.DefaultTopLimit <= 0 {
		return fmt.Errorf("DEFAULT_TOP_LIMIT must be positive")
	}
	if c.DefaultReviewLimit <= 0 {
		return fmt.Errorf("DEFAULT_REVIEW_LIMIT must be positive")
	}
	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive and DB_MAX_IDLE_CONNS non-negative")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.StorageBackend == BackendMemory {
		return fmt.Errorf("STORAGE_BACKEND must be persistent in production")
	}
	if c.StorageBackend == BackendPostgres && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
