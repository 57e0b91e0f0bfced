package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Addr          string
	Env           string
	DataDir       string
	FlushInterval time.Duration

	JWTAccessSecret  string
	JWTRefreshSecret string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             getEnv("ADDR", ":8080"),
		Env:              getEnv("ENV", "development"),
		DataDir:          getEnv("DATA_DIR", "data"),
		FlushInterval:    getEnvDuration("FLUSH_INTERVAL", 5*time.Second),
		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}
	return cfg, nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
