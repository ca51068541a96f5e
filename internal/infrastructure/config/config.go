package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	// CatalogSeedFile replaces the embedded privilege and plan seed when set.
	CatalogSeedFile string `env:"CATALOG_SEED_FILE"`

	Mongo        MongoConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Entitlements EntitlementConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=aidpoint"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type AuthConfig struct {
	TokenTTL        time.Duration `env:"TOKEN_TTL,         default=24h"`
	TrialPlanName   string        `env:"TRIAL_PLAN_NAME,   default=Basic Plan"`
	TrialDays       int           `env:"TRIAL_DAYS,        default=30"`
	MaxFailedLogins int           `env:"MAX_FAILED_LOGINS, default=5"`
	LockoutDuration time.Duration `env:"LOCKOUT_DURATION,  default=30m"`
	// LoginRateLimit is requests per second per client IP on /auth.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT, default=5"`
}

// EntitlementConfig says which resources hard-fail when the owner has no
// active subscription.
type EntitlementConfig struct {
	EmployeeSubscriptionRequired    bool `env:"EMPLOYEE_SUBSCRIPTION_REQUIRED,    default=false"`
	BeneficiarySubscriptionRequired bool `env:"BENEFICIARY_SUBSCRIPTION_REQUIRED, default=true"`
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.MaxFailedLogins < 1 {
		errs = append(errs, errors.New("MAX_FAILED_LOGINS must be at least 1"))
	}
	if c.Auth.LockoutDuration <= 0 {
		errs = append(errs, errors.New("LOCKOUT_DURATION must be positive"))
	}
	if c.Auth.TrialDays < 0 {
		errs = append(errs, errors.New("TRIAL_DAYS must not be negative"))
	}
	return errors.Join(errs...)
}
