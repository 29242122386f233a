package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret     string `env:"JWT_SECRET,required"    validate:"required,min=32"`
	AdminEmail    string `env:"ADMIN_EMAIL,required"   validate:"required,email"`
	ResendAPIKey  string `env:"RESEND_API_KEY"         validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom    string `env:"RESEND_FROM"            validate:"required_if=Env production,required_if=Env staging"`
	MagicLinkBase string `env:"MAGIC_LINK_BASE_URL"    envDefault:"http://localhost:8080"`

	// Daily job quotas per tier. Ceilings live in deployment config, not code.
	LimitUnregistered int `env:"LIMIT_UNREGISTERED" envDefault:"5"   validate:"min=1"`
	LimitFree         int `env:"LIMIT_FREE"         envDefault:"20"  validate:"min=1"`
	LimitPaid         int `env:"LIMIT_PAID"         envDefault:"100" validate:"min=1"`

	// Scraper settings, used by cmd/scraper only.
	SerpAPIKey  string   `env:"SERP_API_KEY"`
	SerpBaseURL string   `env:"SERP_BASE_URL" envDefault:"https://serpapi.com/search.json"`
	ScrapeCron  string   `env:"SCRAPE_CRON"   envDefault:"0 31 6 * * *"`
	JobTitles   []string `env:"JOB_TITLES"    envSeparator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
