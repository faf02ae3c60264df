package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string   `env:"APP_PORT" envDefault:"3000"`
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","` // CORS allowed origins
	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"` // "file" | "dynamo"
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH" envDefault:"./private_key.pem"`
	JWTPublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH" envDefault:"./public_key.pem"`
	JWTExpiry         time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@example.com"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	OTP      OTP
	Dispatch Dispatch
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Integrations string `env:"DYNAMO_TABLE_INTEGRATIONS" envDefault:"integrations"`
	Settings     string `env:"DYNAMO_TABLE_SETTINGS" envDefault:"settings"`
}

// OTP tunes the verification session store.
type OTP struct {
	TTL           time.Duration `env:"OTP_TTL" envDefault:"10m"`
	Cooldown      time.Duration `env:"OTP_COOLDOWN" envDefault:"60s"`
	MaxAttempts   int           `env:"OTP_MAX_ATTEMPTS" envDefault:"5"`
	CodeLength    int           `env:"OTP_CODE_LENGTH" envDefault:"6"`
	HashCost      int           `env:"OTP_HASH_COST" envDefault:"10"`
	SweepInterval time.Duration `env:"OTP_SWEEP_INTERVAL" envDefault:"60s"`
}

// Dispatch tunes outbound webhook and integration delivery.
type Dispatch struct {
	Timeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`
	// WebhookPolicy is "always" (fire whenever a URL is configured) or
	// "live-sync" (also require the webhook record's live-sync flag).
	WebhookPolicy string `env:"WEBHOOK_POLICY" envDefault:"always"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "file", "dynamo":
	default:
		return fmt.Errorf("STORE_BACKEND must be file or dynamo, got %q", c.StoreBackend)
	}
	switch c.Dispatch.WebhookPolicy {
	case "always", "live-sync":
	default:
		return fmt.Errorf("WEBHOOK_POLICY must be always or live-sync, got %q", c.Dispatch.WebhookPolicy)
	}
	if c.OTP.TTL <= 0 || c.OTP.Cooldown < 0 || c.OTP.SweepInterval <= 0 {
		return fmt.Errorf("OTP durations must be positive")
	}
	if c.OTP.MaxAttempts < 1 || c.OTP.CodeLength < 4 || c.OTP.CodeLength > 10 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be >= 1 and OTP_CODE_LENGTH within 4..10")
	}
	if c.Dispatch.Timeout <= 0 {
		return fmt.Errorf("DISPATCH_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }
