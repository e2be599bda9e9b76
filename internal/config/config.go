// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Default credentials shipped in docker-compose.yml; rejected in production.
const (
	defaultDBPassword    = "changeme"
	defaultAdminPassword = "admin"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// SubmitRateLimit is the number of public submissions allowed per IP per minute.
	SubmitRateLimit int `env:"SUBMIT_RATE_LIMIT" envDefault:"10"`

	// PostgreSQL connection. DatabaseURL wins over the individual fields.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort      string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser      string `env:"POSTGRES_USER" envDefault:"lancasterhub"`
	DBPassword  string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName      string `env:"POSTGRES_DB" envDefault:"lancasterhub"`

	// Valkey (Redis-compatible cache). Empty host disables caching and keeps
	// admin tokens in memory.
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `env:"VALKEY_DB" envDefault:"0"`

	// Admin credential
	AdminPassword     string `env:"ADMIN_PASSWORD" envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	AdminTOTPSecret   string `env:"ADMIN_TOTP_SECRET"`

	// Translation
	TranslateAPIKey  string        `env:"GOOGLE_TRANSLATE_API_KEY"`
	TranslateBaseURL string        `env:"TRANSLATE_BASE_URL" envDefault:"https://translation.googleapis.com"`
	TranslateTimeout time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"15s"`
	TranslateRPS     float64       `env:"TRANSLATE_RPS" envDefault:"0"`

	// Fan-out
	FanoutDelay           time.Duration `env:"FANOUT_DELAY" envDefault:"100ms"`
	FanoutDirectionPolicy string        `env:"FANOUT_DIRECTION_POLICY" envDefault:"language"`

	// Projection cache
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"2m"`
}

// Load reads an optional .env file and then the environment, applying
// defaults for development where appropriate. Returns an error if critical
// values are missing in production mode.
func Load() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.FanoutDirectionPolicy {
	case "language", "text":
	default:
		errs = append(errs, fmt.Errorf("FANOUT_DIRECTION_POLICY must be \"language\" or \"text\", got %q", c.FanoutDirectionPolicy))
	}
	if c.TranslateTimeout <= 0 {
		errs = append(errs, errors.New("TRANSLATE_TIMEOUT must be positive"))
	}
	if c.FanoutDelay < 0 {
		errs = append(errs, errors.New("FANOUT_DELAY must not be negative"))
	}
	if c.TranslateRPS < 0 {
		errs = append(errs, errors.New("TRANSLATE_RPS must not be negative"))
	}
	if _, err := url.ParseRequestURI(c.TranslateBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("TRANSLATE_BASE_URL: %w", err))
	}

	if c.Env == "production" {
		if c.DatabaseURL == "" && c.DBPassword == defaultDBPassword {
			errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
		}
		if c.AdminPasswordHash == "" && (c.AdminPassword == "" || c.AdminPassword == defaultAdminPassword) {
			errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in production"))
		}
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a Valkey host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// TranslationEnabled reports whether an API key for the translation
// service is configured.
func (c *Config) TranslationEnabled() bool {
	return c.TranslateAPIKey != ""
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
