package core

import "errors"

// Shared sentinel errors for the remote boundaries.
var (
	// ErrObjectNotFound is returned by ObjectStore.Get for an absent key.
	ErrObjectNotFound = errors.New("object not found")
)
