package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends. Both are volatile: data lives as long as the process.
const (
	StoreBackendMemory = "memory"
	StoreBackendSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	HTTP    HTTPConfig
	GRPC    GRPCConfig
	Store   StoreConfig
	Logging LoggingConfig
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// GRPCConfig holds gRPC server configuration. An empty Addr disables gRPC.
type GRPCConfig struct {
	Addr       string
	Reflection bool
}

// StoreConfig selects the receipt store backend
type StoreConfig struct {
	Backend   string
	SQLiteDSN string
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level  string
	Format string // json|console
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:    getEnvAsInt64("HTTP_MAX_BODY_BYTES", 1<<20),
		},
		GRPC: GRPCConfig{
			Addr:       getEnv("GRPC_ADDR", ""),
			Reflection: getEnvAsBool("GRPC_REFLECTION", false),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(getEnv("STORE_BACKEND", StoreBackendMemory)),
			SQLiteDSN: getEnv("SQLITE_DSN", "file::memory:"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return NewAppError(CodeConfig, "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return NewAppError(CodeConfig, "HTTP_MAX_BODY_BYTES must be positive", ErrInvalidInput)
	}
	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendSQLite:
		if !strings.Contains(c.Store.SQLiteDSN, ":memory:") && !strings.Contains(c.Store.SQLiteDSN, "mode=memory") {
			return NewAppError(CodeConfig, "SQLITE_DSN must point at an in-memory database", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("unknown STORE_BACKEND %q", c.Store.Backend), ErrInvalidInput)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("unknown LOG_FORMAT %q", c.Logging.Format), ErrInvalidInput)
	}
	return nil
}
