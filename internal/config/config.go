package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr        = ":8080"
	defaultJWTTTL            = "24h"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultAuthMode          = AuthModeToken
	defaultIngestConcurrency = "4"
)

const (
	// AuthModeToken trusts the second segment of the Authorization header as
	// the owner identifier, matching the upstream contract. No verification.
	AuthModeToken = "token"
	// AuthModeJWT verifies an HS256 token issued by the auth module.
	AuthModeJWT = "jwt"
)

type Config struct {
	DatabaseURL       string
	ListenAddr        string
	AuthMode          string
	JWTSecret         string
	JWTTTL            time.Duration
	IngestConcurrency int
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListenAddr:  strings.TrimSpace(getEnv("LISTEN_ADDR", defaultListenAddr)),
		AuthMode:    strings.ToLower(strings.TrimSpace(getEnv("AUTH_MODE", defaultAuthMode))),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
	}

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.IngestConcurrency, err = parseIntEnv("INGEST_CONCURRENCY", defaultIngestConcurrency)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AuthMode != AuthModeToken && cfg.AuthMode != AuthModeJWT {
		return fmt.Errorf("AUTH_MODE must be %q or %q", AuthModeToken, AuthModeJWT)
	}
	if cfg.AuthMode == AuthModeJWT && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("AUTH_MODE=jwt requires a non-default JWT_SECRET")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.IngestConcurrency < 1 {
		return fmt.Errorf("INGEST_CONCURRENCY must be >= 1")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
