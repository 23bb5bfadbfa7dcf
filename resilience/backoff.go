package resilience

import (
	"math"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// BackoffDelay returns the exponential delay to sleep after the given
// attempt (1-based): min(initial * multiplier^(attempt-1), max).
// Attempt 1 always yields initial. The function is pure; jitter, when
// enabled, is applied by the caller on top of this value.
func BackoffDelay(attempt int, initial, max time.Duration, multiplier float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	factor := math.Pow(multiplier, float64(attempt-1))
	delay := time.Duration(float64(initial) * factor)
	// Overflow from large exponents shows up as a negative duration.
	if delay > max || delay < 0 {
		delay = max
	}
	return delay
}

// delayFor computes the backoff delay for a strategy. Exponential
// delegates to BackoffDelay; linear and constant apply the same cap.
func delayFor(strategy BackoffStrategy, attempt int, initial, max time.Duration, multiplier float64) time.Duration {
	var delay time.Duration

	switch strategy {
	case BackoffConstant:
		delay = initial
	case BackoffLinear:
		delay = initial * time.Duration(attempt)
	default:
		return BackoffDelay(attempt, initial, max, multiplier)
	}

	if delay > max {
		delay = max
	}
	return delay
}
