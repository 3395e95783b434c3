// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Port        string        // HTTP port to listen on
	DBPath      string        // SQLite database file path
	JWTSecret   string        // secret used to sign session tokens
	TokenTTL    time.Duration // how long session tokens stay valid
	MetricsPath string        // where Prometheus metrics are exposed
}

// Load reads configuration from the environment, after loading a .env file
// if one exists next to the binary. JWT_SECRET is the only required value.
func Load() (Config, error) {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "./data/splittab.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		MetricsPath: getEnv("METRICS_PATH", "/metrics"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
