// Package vault provides durable, encrypted-at-rest storage of
// per-destination credential bundles. Encryption and decryption are
// delegated entirely to the remote key-management boundary, so compromise of
// the storage layer alone does not expose secrets. Downloaded ciphertext is
// materialized only inside a scoped scratch file that is removed before the
// retrieval call returns.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/target/alert-dispatch/internal/core"
)

// CredentialName returns the deterministic vault key for one destination:
// "{serviceKey}/{descriptor}". It doubles as the remote object key, so the
// (service key, descriptor) pair must be unique within the deployment.
func CredentialName(serviceKey, descriptor string) string {
	return serviceKey + "/" + descriptor
}

// Options groups the collaborators a CredentialVault needs.
type Options struct {
	Store    core.ObjectStore
	KMS      core.KeyManagement
	Bucket   string
	KeyAlias string
	Scratch  *ScratchDir
	Logger   *slog.Logger
}

// CredentialVault encrypts, stores, retrieves, and decrypts credential
// bundles keyed by (service key, descriptor).
type CredentialVault struct {
	store    core.ObjectStore
	kms      core.KeyManagement
	bucket   string
	keyAlias string
	scratch  *ScratchDir
	logger   *slog.Logger
}

// New validates the options and builds a vault.
func New(opts Options) (*CredentialVault, error) {
	if opts.Store == nil {
		return nil, errors.New("vault: object store is required")
	}
	if opts.KMS == nil {
		return nil, errors.New("vault: key management is required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("vault: bucket is required")
	}

	scratch := opts.Scratch
	if scratch == nil {
		scratch = NewScratchDir("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CredentialVault{
		store:    opts.Store,
		kms:      opts.KMS,
		bucket:   opts.Bucket,
		keyAlias: opts.KeyAlias,
		scratch:  scratch,
		logger:   logger,
	}, nil
}

// Store serializes the credential bundle, encrypts it under the configured
// key alias, and writes the ciphertext to remote storage in a single put.
// Either the object is written whole or not at all.
func (v *CredentialVault) Store(
	ctx context.Context,
	serviceKey, descriptor string,
	creds map[string]string,
) error {
	name := CredentialName(serviceKey, descriptor)

	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%w: serialize bundle %s: %w", ErrVaultWrite, name, err)
	}

	ciphertext, err := v.kms.Encrypt(ctx, plaintext, v.keyAlias)
	if err != nil {
		return fmt.Errorf("%w: encrypt bundle %s: %w", ErrVaultWrite, name, err)
	}

	if err := v.store.Put(ctx, v.bucket, name, ciphertext); err != nil {
		return fmt.Errorf("%w: put bundle %s: %w", ErrVaultWrite, name, err)
	}

	v.logger.InfoContext(ctx, "stored credential bundle",
		"bucket", v.bucket,
		"credential", name)
	return nil
}

// Retrieve downloads the ciphertext object into the scratch location,
// decrypts it, and deserializes the credential bundle. The scratch file is
// removed before returning regardless of outcome.
func (v *CredentialVault) Retrieve(
	ctx context.Context,
	serviceKey, descriptor string,
) (creds map[string]string, err error) {
	name := CredentialName(serviceKey, descriptor)

	ciphertext, err := v.store.Get(ctx, v.bucket, name)
	if err != nil {
		return nil, fmt.Errorf("%w: get bundle %s: %w", ErrVaultRead, name, err)
	}

	localPath, err := v.scratch.WriteUnique(name, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: materialize bundle %s: %w", ErrVaultRead, name, err)
	}
	defer func() {
		if removeErr := os.Remove(localPath); removeErr != nil {
			err = errors.Join(err, fmt.Errorf("remove scratch file %s: %w", localPath, removeErr))
		}
	}()

	downloaded, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read scratch file for %s: %w", ErrVaultRead, name, err)
	}

	plaintext, err := v.kms.Decrypt(ctx, downloaded)
	if err != nil {
		return nil, fmt.Errorf("%w: bundle %s: %w", ErrVaultDecrypt, name, err)
	}

	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("%w: deserialize bundle %s: %w", ErrVaultDecrypt, name, err)
	}
	return creds, nil
}

// Decrypt is a thin wrapper around the key-management decrypt primitive.
func (v *CredentialVault) Decrypt(ctx context.Context, ciphertext []byte) (string, error) {
	plaintext, err := v.kms.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVaultDecrypt, err)
	}
	return string(plaintext), nil
}
