package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "consignly-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "consignly", cfg.Database.DBName)
	assert.Equal(t, "atomic", cfg.Payout.AllocationMode)
	assert.Equal(t, "total", cfg.Payout.CommissionBasis)
	assert.Equal(t, 30*time.Second, cfg.Payout.LockTTL)
	assert.True(t, cfg.Payout.DefaultCommissionRate.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, cfg.Redis.Addr())
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONSIGN_APP_PORT", "9000")
	t.Setenv("CONSIGN_DATABASE_HOST", "db.internal")
	t.Setenv("CONSIGN_PAYOUT_ALLOCATION_MODE", "best_effort")
	t.Setenv("CONSIGN_PAYOUT_DEFAULT_COMMISSION_RATE", "35.5")
	t.Setenv("CONSIGN_REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "best_effort", cfg.Payout.AllocationMode)
	assert.True(t, cfg.Payout.DefaultCommissionRate.Equal(decimal.RequireFromString("35.5")))
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
}

func TestLoad_DotEnvAndToml(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[app]
name = "from-toml"
port = "7000"

[payout]
commission_basis = "profit"
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONSIGN_APP_PORT=7100\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CONSIGN_APP_PORT") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-toml", cfg.App.Name)
	assert.Equal(t, "7100", cfg.App.Port)
	assert.Equal(t, "profit", cfg.Payout.CommissionBasis)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown allocation mode", func(c *Config) { c.Payout.AllocationMode = "greedy" }, "allocation_mode"},
		{"unknown basis", func(c *Config) { c.Payout.CommissionBasis = "net" }, "commission_basis"},
		{"rate above 100", func(c *Config) { c.Payout.DefaultCommissionRate = decimal.NewFromInt(101) }, "default_commission_rate"},
		{"short lock ttl", func(c *Config) {
			c.Payout.LockEnabled = true
			c.Payout.LockTTL = 100 * time.Millisecond
		}, "lock_ttl"},
		{"idle above open", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"sampling ratio", func(c *Config) { c.Telemetry.SamplingRatio = 1.5 }, "sampling_ratio"},
		{"production needs a long secret", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "short"
		}, "jwt.secret"},
		{"production rejects wildcard CORS", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
			c.Database.Password = "pw"
			c.Database.SSLMode = "require"
			c.HTTP.CORSAllowOrigins = []string{"*"}
		}, "cors_allow_origins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "consignly", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/consignly?sslmode=disable", d.DSN())
}
