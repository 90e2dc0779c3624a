package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	// Empty DATABASE_URL is only allowed locally; the API then runs on the in-memory store.
	DatabaseURL string `env:"DATABASE_URL" validate:"required_unless=Env local"`
	RedisURL    string `env:"REDIS_URL"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret            string        `env:"JWT_SECRET"             validate:"required,min=32"`
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL"       envDefault:"1h"  validate:"gt=0"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL" envDefault:"24h" validate:"gt=0"`
	TwoFactorCodeTTL     time.Duration `env:"TWO_FACTOR_CODE_TTL"    envDefault:"10m" validate:"gt=0"`

	RequireEmailVerification bool   `env:"REQUIRE_EMAIL_VERIFICATION" envDefault:"false"`
	FrontendURL              string `env:"FRONTEND_URL"               envDefault:"http://localhost:3000" validate:"url"`

	MailProvider string `env:"MAIL_PROVIDER"  envDefault:"log" validate:"oneof=log resend smtp"`
	MailFrom     string `env:"MAIL_FROM"      envDefault:"no-reply@projecttracker.dev" validate:"required_unless=MailProvider log"`
	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=MailProvider resend"`
	SMTPHost     string `env:"SMTP_HOST"      validate:"required_if=MailProvider smtp"`
	SMTPPort     int    `env:"SMTP_PORT"      envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	JanitorSchedule       string `env:"JANITOR_SCHEDULE"        envDefault:"@every 1m" validate:"required"`
	ActivityRetentionDays int    `env:"ACTIVITY_RETENTION_DAYS" envDefault:"0"         validate:"min=0"`
}

// Load reads the environment. A missing or weak signing secret is reported
// as domain.ErrConfig so callers can treat it as fatal.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: parse env: %w", domain.ErrConfig, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.StructField() == "JWTSecret" {
					return nil, fmt.Errorf("%w: JWT_SECRET must be set and at least 32 characters", domain.ErrConfig)
				}
			}
		}
		return nil, fmt.Errorf("%w: invalid config: %w", domain.ErrConfig, err)
	}

	// The log sender writes message bodies, including codes and links, to stdout.
	if cfg.MailProvider == "log" && cfg.Env != "local" {
		return nil, fmt.Errorf("%w: MAIL_PROVIDER=log is only allowed with ENV=local", domain.ErrConfig)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
