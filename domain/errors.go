package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by every service. Callers branch with errors.Is.
var (
	// ErrNotFound marks lookups for entities that do not exist. Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData marks analyses that cannot meet their minimum data
	// requirement. Results still carry usable defaults.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoRecentData marks analyses whose source rows all fall outside the
	// observation window.
	ErrNoRecentData = fmt.Errorf("no recent data: %w", ErrInsufficientData)

	// ErrUpstreamUnavailable marks transient store or bus failures. Retryable.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrComputation marks arithmetic the division guards should make
	// unreachable. Observing it is a bug.
	ErrComputation = errors.New("computation error")
)
