package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrOutputConfigConflict is returned when a descriptor write collides
	// with an existing (service key, descriptor) pair.
	ErrOutputConfigConflict = errors.New("output configuration descriptor already exists")
)
