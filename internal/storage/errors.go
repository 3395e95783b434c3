package storage

import "errors"

// Sentinel error values shared by every store implementation. Services
// distinguish failure modes with errors.Is rather than by inspecting
// driver-specific errors.
var (
	// ErrNotFound is returned when an entity id or code has no match.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert collides with a unique
	// index, such as an already-registered email or username.
	// Code-generation collisions are retried inside the store and never
	// surface as this error.
	ErrDuplicate = errors.New("duplicate")
)
