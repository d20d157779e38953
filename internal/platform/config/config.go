package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr              string `envconfig:"APP_ADDR" default:":8080"`
	Environment       string `envconfig:"APP_ENV" default:"development"`
	DatabaseURL       string `envconfig:"DATABASE_URL"`
	JWTSecret         string `envconfig:"JWT_SECRET"`
	DataEncryptionKey string `envconfig:"DATA_ENCRYPTION_KEY"`

	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`
	RunMigrations     bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed           bool   `envconfig:"RUN_SEED" default:"true"`

	EmailEnabled bool   `envconfig:"EMAIL_ENABLED" default:"false"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"no-reply@example.com"`
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPUseTLS   bool   `envconfig:"SMTP_USE_TLS" default:"true"`

	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3BaseEndpoint string `envconfig:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`

	MaxBodyBytes       int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	AccrualInterval    time.Duration `envconfig:"LEAVE_ACCRUAL_INTERVAL" default:"24h"`
	SweepInterval      time.Duration `envconfig:"COMPLIANCE_SWEEP_INTERVAL" default:"24h"`
	RetentionInterval  time.Duration `envconfig:"RETENTION_INTERVAL" default:"24h"`
	RetentionDays      int           `envconfig:"RETENTION_DAYS" default:"365"`
	MetricsEnabled     bool          `envconfig:"METRICS_ENABLED" default:"true"`
	CORSOrigins        []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

func Load() (Config, error) {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set when S3_BUCKET is configured")
	}
	return nil
}

func (c Config) S3Configured() bool {
	return c.S3Bucket != ""
}
