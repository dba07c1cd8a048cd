// Package config holds the environment-driven application configuration.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// the available variables:
//   - vault.go: credential vault and key management
//   - dispatch.go: alert fan-out behavior
//   - database.go: Postgres and Redis connections
package config

import "strings"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
type AppConfig struct {
	// Region is the deployment region, part of the secrets bucket name.
	Region string `env:"REGION" envDefault:"us-east-1"`

	// AccountID is the deployment account identifier, part of the secrets
	// bucket name. Required outside development.
	AccountID string `env:"ACCOUNT_ID" envDefault:"dev"`

	// FunctionName identifies this dispatcher deployment to downstream
	// services (e.g. as the client field of paging events).
	FunctionName string `env:"FUNCTION_NAME" envDefault:"alert-dispatcher"`

	// Vault configuration
	Vault VaultConfig `envPrefix:"VAULT_"`

	// Dispatch configuration
	Dispatch DispatchConfig `envPrefix:"DISPATCH_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Region = strings.TrimSpace(c.Region)
	c.AccountID = strings.TrimSpace(c.AccountID)
	c.FunctionName = strings.TrimSpace(c.FunctionName)

	c.Vault.Sanitize()
	c.Dispatch.Sanitize()
}
