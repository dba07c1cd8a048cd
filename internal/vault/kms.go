package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Versioned prefix to allow future key/algorithm rotations without
	// re-encrypting stored bundles.
	cipherPrefixV1 = "v1:"
	noopPrefix     = "noop:"
)

// LocalKeyManagement implements the key-management boundary with an in-process
// AES-256-GCM keyring mapping key aliases to 32-byte keys. Ciphertext embeds
// the alias it was encrypted under so Decrypt needs no caller hint.
type LocalKeyManagement struct {
	keys map[string][]byte
}

// NewLocalKeyManagement builds a keyring. Every key must be 32 bytes.
func NewLocalKeyManagement(keys map[string][]byte) (*LocalKeyManagement, error) {
	if len(keys) == 0 {
		return nil, errors.New("key management: at least one key alias is required")
	}
	keyring := make(map[string][]byte, len(keys))
	for alias, key := range keys {
		if alias == "" || strings.Contains(alias, ":") {
			return nil, fmt.Errorf("key management: invalid key alias %q", alias)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("key management: key for alias %q must be 32 bytes, got %d", alias, len(key))
		}
		keyring[alias] = append([]byte(nil), key...)
	}
	return &LocalKeyManagement{keys: keyring}, nil
}

// Encrypt seals plaintext under the aliased key with a random nonce. The
// result is "v1:<alias>:" + base64(nonce||ciphertext).
func (m *LocalKeyManagement) Encrypt(_ context.Context, plaintext []byte, keyAlias string) ([]byte, error) {
	key, ok := m.keys[keyAlias]
	if !ok {
		return nil, fmt.Errorf("key management: unknown key alias %q", keyAlias)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, readErr := io.ReadFull(rand.Reader, nonce); readErr != nil {
		return nil, readErr
	}
	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	buf := make([]byte, 0, len(nonce)+len(sealed))
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)
	out := cipherPrefixV1 + keyAlias + ":" + base64.StdEncoding.EncodeToString(buf)
	return []byte(out), nil
}

// Decrypt opens ciphertext produced by Encrypt. Noop-prefixed ciphertext
// from deployments without a configured key is still readable.
func (m *LocalKeyManagement) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	text := string(ciphertext)

	if strings.HasPrefix(text, noopPrefix) {
		decoded, err := base64.StdEncoding.DecodeString(text[len(noopPrefix):])
		if err != nil {
			return nil, fmt.Errorf("decode noop ciphertext: %w", err)
		}
		return decoded, nil
	}

	if !strings.HasPrefix(text, cipherPrefixV1) {
		return nil, fmt.Errorf("unknown ciphertext version (prefix: %s)", excerpt(text))
	}

	rest := text[len(cipherPrefixV1):]
	alias, b64, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, errors.New("ciphertext is missing its key alias")
	}
	key, exists := m.keys[alias]
	if !exists {
		return nil, fmt.Errorf("key management: unknown key alias %q", alias)
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	return gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func excerpt(text string) string {
	if len(text) > 10 {
		return text[:10]
	}
	return text
}

// NoopKeyManagement stores plaintext with a prefix marker. Useful for tests
// and local development before an encryption key is configured.
type NoopKeyManagement struct{}

func (NoopKeyManagement) Encrypt(_ context.Context, plaintext []byte, _ string) ([]byte, error) {
	return []byte(noopPrefix + base64.StdEncoding.EncodeToString(plaintext)), nil
}

func (NoopKeyManagement) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	text := string(ciphertext)
	if !strings.HasPrefix(text, noopPrefix) {
		return nil, errors.New("invalid noop ciphertext")
	}
	return base64.StdEncoding.DecodeString(text[len(noopPrefix):])
}
