package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "dev-secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "aidpoint", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "Basic Plan", cfg.Auth.TrialPlanName)
	assert.Equal(t, 30, cfg.Auth.TrialDays)
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.Equal(t, 30*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 5.0, cfg.Auth.LoginRateLimit)
	assert.True(t, cfg.Entitlements.BeneficiarySubscriptionRequired)
	assert.False(t, cfg.Entitlements.EmployeeSubscriptionRequired)
	assert.Empty(t, cfg.CatalogSeedFile)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":                     "dev-secret",
		"MONGO_URI":                      "mongodb://db:27017/?replicaSet=rs0",
		"REDIS_DB":                       "2",
		"TOKEN_TTL":                      "2h",
		"LOCKOUT_DURATION":               "5m",
		"EMPLOYEE_SUBSCRIPTION_REQUIRED": "true",
		"TRIAL_PLAN_NAME":                "Professional Plan",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017/?replicaSet=rs0", cfg.Mongo.URI)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LockoutDuration)
	assert.True(t, cfg.Entitlements.EmployeeSubscriptionRequired)
	assert.Equal(t, "Professional Plan", cfg.Auth.TrialPlanName)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET is required"},
		{"short production secret", map[string]string{"JWT_SECRET": "short", "ENV": "production"}, "at least 32 bytes"},
		{"zero lockout threshold", map[string]string{"JWT_SECRET": "s", "MAX_FAILED_LOGINS": "0"}, "MAX_FAILED_LOGINS"},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "soon"}, "invalid duration"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tc.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
