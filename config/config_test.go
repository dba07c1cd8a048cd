package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "dev", cfg.AccountID)
	assert.Equal(t, "alert-dispatcher", cfg.FunctionName)
	assert.Equal(t, "alerts", cfg.Vault.KeyAlias)
	assert.Equal(t, "alert-dispatch-secrets", cfg.Vault.ScratchDirName)
	assert.Equal(t, 4, cfg.Dispatch.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Dispatch.HTTPTimeout)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, time.Minute, cfg.Cache.OutputConfigTTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REGION", "eu-west-1")
	t.Setenv("ACCOUNT_ID", "123456789012")
	t.Setenv("VAULT_KEY_ALIAS", "prod-alerts")
	t.Setenv("DISPATCH_CONCURRENCY", "16")
	t.Setenv("DISPATCH_RECORD_PATH", "detail")
	t.Setenv("DB_NAME", "alerts_prod")
	t.Setenv("CACHE_OUTPUT_CONFIG_TTL", "5m")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "123456789012", cfg.AccountID)
	assert.Equal(t, "prod-alerts", cfg.Vault.KeyAlias)
	assert.Equal(t, 16, cfg.Dispatch.Concurrency)
	assert.Equal(t, "detail", cfg.Dispatch.RecordPath)
	assert.Equal(t, "alerts_prod", cfg.Postgres.Name)
	assert.Equal(t, 5*time.Minute, cfg.Cache.OutputConfigTTL)
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{
		Region:       "  us-east-1  ",
		AccountID:    " dev ",
		FunctionName: " alert-dispatcher ",
	}
	cfg.Vault.KeyAlias = "   "
	cfg.Dispatch.Concurrency = -1
	cfg.Dispatch.HTTPTimeout = 0
	cfg.Dispatch.RecordPath = " detail "

	cfg.Sanitize()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "dev", cfg.AccountID)
	assert.Equal(t, "alert-dispatcher", cfg.FunctionName)
	assert.Equal(t, "alerts", cfg.Vault.KeyAlias)
	assert.Equal(t, 4, cfg.Dispatch.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Dispatch.HTTPTimeout)
	assert.Equal(t, "detail", cfg.Dispatch.RecordPath)
}
