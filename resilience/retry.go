package resilience

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the maximum delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds up to 25% randomness to delays to prevent thundering
	// herd. Off by default so delays stay deterministic.
	Jitter bool

	// RetryIf determines if an error should trigger a retry.
	// Default: DefaultRetryIf (transient errors only).
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt. A panic inside the
	// hook is swallowed; it must never mask the real error.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Outcome reports the result of a detailed retry sequence. Err holds the
// last observed error, never an aggregate.
type Outcome struct {
	Succeeded  bool
	Err        error
	Attempts   int
	TotalDelay time.Duration
}

// Retry implements retry with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.InitialDelay > config.MaxDelay {
		config.InitialDelay = config.MaxDelay
	}
	if config.Multiplier <= 1 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryIf
	}

	return &Retry{config: config}
}

// Execute runs the operation with retry logic. On exhaustion it returns
// the error from the final attempt.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	return r.ExecuteDetailed(ctx, op).Err
}

// ExecuteDetailed runs the operation with retry logic and returns an
// Outcome carrying attempt and delay metadata, for callers that want
// success/failure plus accounting without error-driven control flow.
func (r *Retry) ExecuteDetailed(ctx context.Context, op func(context.Context) error) Outcome {
	out := Outcome{}

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		out.Attempts = attempt
		err := op(ctx)

		if err == nil {
			out.Succeeded = true
			out.Err = nil
			return out
		}

		out.Err = err

		// Non-retryable errors surface immediately.
		if !r.config.RetryIf(err) {
			return out
		}

		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)
		r.notifyRetry(attempt, err, delay)

		select {
		case <-ctx.Done():
			out.Err = ctx.Err()
			return out
		case <-time.After(delay):
		}
		out.TotalDelay += delay
	}

	return out
}

// Do runs a value-returning operation under the retry handler. Methods
// cannot be generic, so this is a package-level helper.
func Do[T any](ctx context.Context, r *Retry, op func(context.Context) (T, error)) (T, error) {
	var value T
	err := r.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

func (r *Retry) calculateDelay(attempt int) time.Duration {
	delay := delayFor(r.config.Strategy, attempt, r.config.InitialDelay, r.config.MaxDelay, r.config.Multiplier)

	if r.config.Jitter && delay > 0 {
		// Up to 25% jitter.
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay/4) + 1))
	}

	return delay
}

func (r *Retry) notifyRetry(attempt int, err error, delay time.Duration) {
	if r.config.OnRetry == nil {
		return
	}
	defer func() {
		// A misbehaving observation hook must not abort the sequence.
		_ = recover()
	}()
	r.config.OnRetry(attempt, err, delay)
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
