package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backend names accepted by STORE_BACKEND
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Store configuration
	Store StoreConfig

	// Text-suggestion configuration
	Suggest SuggestConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig holds document store settings
type StoreConfig struct {
	Backend       string
	BadgerPath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// SuggestConfig holds text-suggestion collaborator settings. An empty APIKey
// is valid: the collaborator then degrades to its deterministic fallbacks.
type SuggestConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Backend:       getEnv("STORE_BACKEND", BackendBadger),
			BadgerPath:    getEnv("STORE_BADGER_PATH", "./data/store"),
			RedisAddr:     getEnv("STORE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("STORE_REDIS_PASSWORD", ""),
			RedisDB:       getIntEnv("STORE_REDIS_DB", 0),
		},
		Suggest: SuggestConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getDurationEnv("SUGGEST_TIMEOUT", 15*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendBadger, BackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of memory, badger, redis; got %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendBadger && c.Store.BadgerPath == "" {
		return fmt.Errorf("STORE_BADGER_PATH is required for the badger backend")
	}
	if c.Store.Backend == BackendRedis && c.Store.RedisAddr == "" {
		return fmt.Errorf("STORE_REDIS_ADDR is required for the redis backend")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
