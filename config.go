package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/msomdec/staybook/internal/service"
)

// config is the process configuration, read from the environment.
type config struct {
	Port          string
	APIURL        string
	SessionSecret string
	DatabasePath  string
	TokenBackend  string
	RedisAddr     string
	RedisPassword string
	TokenTTL      time.Duration
	APITimeout    time.Duration
	CookieSecure  bool
	LoginRate     float64
	LoginBurst    float64
}

// loadConfig reads .env when present, then the process environment.
// Variables already set in the environment win over .env.
func loadConfig() (*config, error) {
	_ = godotenv.Load()

	cfg := &config{
		Port:          envOrDefault("PORT", "8080"),
		APIURL:        os.Getenv("API_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DatabasePath:  envOrDefault("DATABASE_PATH", "staybook.db"),
		TokenBackend:  envOrDefault("TOKEN_BACKEND", "sqlite"),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = durationEnv("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.LoginRate, err = floatEnv("LOGIN_RATE", 0.2); err != nil {
		return nil, err
	}
	if cfg.LoginBurst, err = floatEnv("LOGIN_BURST", 5); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.APIURL == "" {
		return errors.New("API_URL environment variable is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if len(c.SessionSecret) < service.MinSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", service.MinSecretLength)
	}
	if c.TokenBackend != "sqlite" && c.TokenBackend != "redis" {
		return fmt.Errorf("TOKEN_BACKEND must be sqlite or redis, got %q", c.TokenBackend)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.LoginBurst < 1 {
		return errors.New("LOGIN_BURST must be at least 1")
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func durationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
