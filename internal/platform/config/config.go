package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME,default=gifted"`
	HTTPPort    string `env:"HTTP_PORT,default=8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	// EnableBillingGate turns on the subscription check on offer publish.
	EnableBillingGate bool `env:"ENABLE_BILLING_GATE,default=false"`

	// Claim rate limiting at the HTTP edge, per creator.
	ClaimRatePerMinute int `env:"CLAIM_RATE_PER_MINUTE,default=30"`
	ClaimRateBurst     int `env:"CLAIM_RATE_BURST,default=5"`

	// IdempotencyTTL bounds how long offer-create replay records are kept.
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,default=168h"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}
