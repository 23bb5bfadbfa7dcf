package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	// It is deliberately non-retryable: an open circuit means the
	// resource needs time, not more traffic.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when a breaker-guarded call exceeds its
	// CallTimeout.
	ErrTimeout = errors.New("resilience: operation timed out")
)
