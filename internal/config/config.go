// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port string

	DBDriver    string
	DatabaseURL string

	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int

	AdminName     string
	AdminEmail    string
	AdminPassword string

	CORSAllowedOrigins []string
	LoginRate          float64
	LoginBurst         float64

	LogLevel string
	LogFile  string

	SentryDSN         string
	SentryEnvironment string

	ATUsername    string
	ATAPIKey      string
	ATSMSURL      string
	ATVoiceURL    string
	ATSenderID    string
	SupportNumber string
}

// SeedAdmin reports whether an administrator account should be seeded.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Load reads an optional .env file, then the environment, and validates the
// result. Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:               envOrDefault("PORT", "8080"),
		DBDriver:           envOrDefault("DB_DRIVER", "sqlite"),
		DatabaseURL:        envOrDefault("DATABASE_URL", "livewell.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          envOrDefault("JWT_ISSUER", "livewell"),
		AdminName:          envOrDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		CORSAllowedOrigins: splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFile:            os.Getenv("LOG_FILE"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		SentryEnvironment:  envOrDefault("SENTRY_ENVIRONMENT", "development"),
		ATUsername:         envOrDefault("AT_USERNAME", "sandbox"),
		ATAPIKey:           os.Getenv("AT_API_KEY"),
		ATSMSURL:           envOrDefault("AT_SMS_URL", "https://api.sandbox.africastalking.com"),
		ATVoiceURL:         envOrDefault("AT_VOICE_URL", "https://voice.sandbox.africastalking.com"),
		ATSenderID:         os.Getenv("AT_SENDER_ID"),
		SupportNumber:      os.Getenv("SUPPORT_NUMBER"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(envOrDefault("TOKEN_TTL", "1h")); err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.BcryptCost, err = strconv.Atoi(envOrDefault("BCRYPT_COST", "12")); err != nil {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cfg.LoginRate, err = strconv.ParseFloat(envOrDefault("LOGIN_RATE", "0.2"), 64); err != nil {
		return Config{}, fmt.Errorf("invalid LOGIN_RATE: %w", err)
	}
	if cfg.LoginBurst, err = strconv.ParseFloat(envOrDefault("LOGIN_BURST", "5"), 64); err != nil {
		return Config{}, fmt.Errorf("invalid LOGIN_BURST: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that parsed but are out of range.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.LoginRate < 0 || c.LoginBurst < 1 {
		errs = append(errs, errors.New("LOGIN_RATE must be >= 0 and LOGIN_BURST >= 1"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
