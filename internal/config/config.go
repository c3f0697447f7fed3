package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Market   MarketConfig
	Refresh  RefreshConfig
	Provider ProviderConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig pins the timezone the refresh windows are evaluated in.
type MarketConfig struct {
	Timezone string
}

// RefreshConfig holds the scheduled-refresh settings.
type RefreshConfig struct {
	Schedule string        // cron expression for the periodic refresh job
	CacheTTL time.Duration // in-memory price cache TTL
}

// ProviderConfig holds quote-provider settings.
type ProviderConfig struct {
	EncryptionKey string // base64 fernet key for the stored API token; empty disables credential storage
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cacheTTL, err := time.ParseDuration(getEnv("PRICE_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_CACHE_TTL: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Market: MarketConfig{
			Timezone: getEnv("MARKET_TIMEZONE", "Asia/Shanghai"),
		},
		Refresh: RefreshConfig{
			Schedule: getEnv("REFRESH_SCHEDULE", "@every 1m"),
			CacheTTL: cacheTTL,
		},
		Provider: ProviderConfig{
			EncryptionKey: getEnv("PROVIDER_ENCRYPTION_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "") == "true",
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
