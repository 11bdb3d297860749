package model

import "errors"

// Sentinel errors shared across services. Store functions return raw
// wrapped errors; services translate them into this taxonomy so handlers
// can map them to status codes with errors.Is.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolation means the operation would break an aggregate
	// invariant (e.g. deleting the sole version of a recipe, or pointing
	// current at a label that no version carries).
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnauthenticated means no user identity could be resolved for an
	// operation that requires one.
	ErrUnauthenticated = errors.New("unauthenticated")
)
