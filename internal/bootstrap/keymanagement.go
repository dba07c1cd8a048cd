package bootstrap

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/target/alert-dispatch/config"
	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/vault"
)

// CreateKeyManagement builds the key-management implementation from config.
// If the key is a 64-char hex string it is decoded; otherwise it is hashed
// to a 32-byte key. An empty or invalid key falls back to noop encryption
// with a warning log.
//
//nolint:ireturn // Returning the interface is intentional for the key-management abstraction
func CreateKeyManagement(cfg config.VaultConfig, logger *slog.Logger) core.KeyManagement {
	if cfg.EncryptionKey == "" {
		if logger != nil {
			logger.Warn("encryption key is empty, using noop key management")
		}
		return vault.NoopKeyManagement{}
	}

	kms, err := vault.NewLocalKeyManagement(map[string][]byte{
		cfg.KeyAlias: keyBytes(cfg.EncryptionKey),
	})
	if err != nil {
		if logger != nil {
			logger.Warn("failed to create key management, using noop", "error", err)
		}
		return vault.NoopKeyManagement{}
	}
	return kms
}

func keyBytes(key string) []byte {
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == 32 {
		return decoded
	}
	hash := sha256.Sum256([]byte(key))
	return hash[:]
}
