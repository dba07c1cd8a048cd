package vault

import "errors"

// Credential-path failures. Always surfaced to the caller: a destination
// with unusable credentials must not be treated as configured.
var (
	// ErrVaultWrite marks a failed encrypt or storage write during Store.
	ErrVaultWrite = errors.New("vault write failure")
	// ErrVaultRead marks an absent or unreadable credential object.
	ErrVaultRead = errors.New("vault read failure")
	// ErrVaultDecrypt marks a key-management decrypt failure (wrong alias,
	// corrupted ciphertext, revoked access).
	ErrVaultDecrypt = errors.New("vault decrypt failure")
)
