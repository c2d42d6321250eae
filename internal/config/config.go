package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the API process reads from the environment.
type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	JWTSecret    string
	JWTRefresh   string
	LogLevel     string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
	RateBurst    int
	RatePerSec   int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:          getEnv("ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTRefresh:   strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
		MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		ConnLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 15*time.Minute),
		RateBurst:    getEnvAsInt("RATE_LIMIT_BURST", 50),
		RatePerSec:   getEnvAsInt("RATE_LIMIT_PER_SECOND", 25),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefresh == "" {
		return nil, errors.New("config: JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	if cfg.JWTSecret == cfg.JWTRefresh {
		return nil, errors.New("config: access and refresh secrets must differ")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
