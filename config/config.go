package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const productionEnv = "production"

// Config is the process configuration, read from the environment
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`

	AdminSecret     string        `env:"ADMIN_SECRET"`
	AdminSessionTTL time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"24h"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:","`

	ReadTimeoutSeconds     int `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds    int `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds     int `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`
	ShutdownTimeoutSeconds int `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"30"`

	ResendAPIKey    string `env:"RESEND_API_KEY"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL"`
	NotifyEmail     string `env:"NOTIFY_EMAIL"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
	NotifyPhone      string `env:"NOTIFY_PHONE"`

	S3Bucket        string        `env:"S3_BUCKET"`
	S3PublicBaseURL string        `env:"S3_PUBLIC_BASE_URL"`
	ResumeObjectKey string        `env:"RESUME_OBJECT_KEY" envDefault:"resume.pdf"`
	ResumeURLTTL    time.Duration `env:"RESUME_URL_TTL" envDefault:"15m"`

	SSMParameterPath string `env:"SSM_PARAMETER_PATH"`
}

// IsProduction reports whether the process runs in production mode.
// Admin authentication is only enforced in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, productionEnv)
}

// ReadTimeout, WriteTimeout, IdleTimeout and ShutdownTimeout convert the configured seconds
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Parse reads the configuration from the current environment
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AcceptedOrigins = trimAll(cfg.AcceptedOrigins)
	return cfg, nil
}

// Load reads .env (if present), overlays SSM parameters when SSM_PARAMETER_PATH is set,
// and parses the result. DATABASE_URL is required.
func Load(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	if path := os.Getenv("SSM_PARAMETER_PATH"); path != "" {
		if err := LoadSSMParameters(ctx, path); err != nil {
			return Config{}, err
		}
	}

	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return cfg, nil
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
