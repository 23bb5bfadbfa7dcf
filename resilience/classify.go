package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
)

// transientError marks a wrapped error as a transient failure.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as a transient failure worth retrying. Boundaries
// that make outbound calls (the LLM client, for instance) wrap transport
// resets, gateway errors, and deadline expiries with Transient so the
// retry classifier can depend on a stable category instead of matching
// free-form message text. Returns nil if err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked Transient, is a net timeout,
// or is the breaker call-timeout sentinel.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// transientSignatures are message fragments from libraries that surface
// transport failures only as text. Matching is a fallback; typed
// classification via Transient is preferred.
var transientSignatures = []string{
	"connection reset",
	"connection refused",
	"econnrefused",
	"ehostunreach",
	"host unreachable",
	"broken pipe",
	"timeout",
	"timed out",
	"network",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
}

func matchesTransientSignature(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// DefaultRetryIf is the default retry classifier. An error is retryable
// iff it is transient (typed or net timeout) or carries a known transient
// message signature. Circuit-open, rate-limit, and context cancellation
// errors are never retryable regardless of message text.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrRateLimitExceeded) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if IsTransient(err) {
		return true
	}
	return matchesTransientSignature(err)
}
