package device

import "errors"

var (
	// ErrExhausted is returned when every strategy failed to produce a context.
	ErrExhausted = errors.New("no rendering context could be acquired")

	// ErrSubstrateUnavailable marks strategies skipped because the shared GPU instance was not built.
	ErrSubstrateUnavailable = errors.New("gpu substrate unavailable")

	// ErrNoAdapter is returned when an adapter request yields nothing usable.
	ErrNoAdapter = errors.New("no compatible adapter")
)
