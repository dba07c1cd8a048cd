package config

import "strings"

// VaultConfig contains credential vault and key management configuration.
type VaultConfig struct {
	// KeyAlias is the well-known key-management alias credential bundles
	// are encrypted under.
	KeyAlias string `env:"KEY_ALIAS" envDefault:"alerts"`

	// EncryptionKey is the key material for the local key-management
	// implementation: either a 64-char hex string or any passphrase
	// (hashed to 32 bytes). Empty falls back to noop encryption with a
	// warning; never leave it empty in production.
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// ScratchDirName names the process-local scratch directory used to
	// materialize downloaded ciphertext during retrieval.
	ScratchDirName string `env:"SCRATCH_DIR_NAME" envDefault:"alert-dispatch-secrets"`

	// BucketOverride replaces the derived "{account}.{region}" secrets
	// bucket name when set.
	BucketOverride string `env:"BUCKET"`
}

// Sanitize applies guardrails to vault configuration.
func (c *VaultConfig) Sanitize() {
	c.KeyAlias = strings.TrimSpace(c.KeyAlias)
	if c.KeyAlias == "" {
		c.KeyAlias = "alerts"
	}
	c.ScratchDirName = strings.TrimSpace(c.ScratchDirName)
	c.BucketOverride = strings.TrimSpace(c.BucketOverride)
}
