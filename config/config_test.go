package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
)

const secret = "config-test-secret-at-least-32-chars"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "local" || cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AccessTokenTTL != time.Hour || cfg.VerificationTokenTTL != 24*time.Hour || cfg.TwoFactorCodeTTL != 10*time.Minute {
		t.Errorf("ttls = %v / %v / %v", cfg.AccessTokenTTL, cfg.VerificationTokenTTL, cfg.TwoFactorCodeTTL)
	}
	if cfg.RequireEmailVerification {
		t.Error("email verification gate should default to off")
	}
	if cfg.MailProvider != "log" || cfg.JanitorSchedule != "@every 1m" {
		t.Errorf("mail/janitor defaults = %q / %q", cfg.MailProvider, cfg.JanitorSchedule)
	}
}

func TestLoad_MissingSecret_IsConfigError(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, domain.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoad_ShortSecret_IsConfigError(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	if !errors.Is(err, domain.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoad_ProductionRequiresDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MAIL_PROVIDER", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	if _, err := Load(); !errors.Is(err, domain.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoad_LogMailerOnlyLocal(t *testing.T) {
	for _, envName := range []string{"staging", "production"} {
		t.Run(envName, func(t *testing.T) {
			t.Setenv("JWT_SECRET", secret)
			t.Setenv("ENV", envName)
			t.Setenv("DATABASE_URL", "postgres://localhost/tracker")
			t.Setenv("MAIL_PROVIDER", "log")

			if _, err := Load(); !errors.Is(err, domain.ErrConfig) {
				t.Fatalf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoad_ProductionWithRealMailer(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/tracker")
	t.Setenv("MAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "re_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MailProvider != "resend" {
		t.Errorf("provider = %q", cfg.MailProvider)
	}
}

func TestLoad_ResendRequiresAPIKey(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("MAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "")

	if _, err := Load(); !errors.Is(err, domain.ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("REQUIRE_EMAIL_VERIFICATION", "true")
	t.Setenv("TWO_FACTOR_CODE_TTL", "5m")
	t.Setenv("ACTIVITY_RETENTION_DAYS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RequireEmailVerification || cfg.TwoFactorCodeTTL != 5*time.Minute || cfg.ActivityRetentionDays != 30 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		if got := (&Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
