package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, populated from the environment.
type Config struct {
	Issuer string `env:"AUTH_ISSUER" envDefault:"astral-auth"`

	// SigningKeyFile points at a PKCS8 Ed25519 private key in PEM form.
	// Empty means an ephemeral key is generated at startup, which
	// invalidates all outstanding tokens on restart.
	SigningKeyFile string `env:"AUTH_SIGNING_KEY_FILE"`

	// AccountsFile is an optional JSON account directory. Empty falls
	// back to the built-in accounts.
	AccountsFile string `env:"AUTH_ACCOUNTS_FILE"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`

	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"168h"`
	SessionTTL      time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 || cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("token and session lifetimes must be positive")
	}

	return cfg, nil
}
