package resilience

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of operations allowed per second.
	// Default: 10
	Rate float64

	// Burst is the maximum burst size.
	// Default: 1
	Burst int

	// WaitOnLimit waits for a token instead of returning
	// ErrRateLimitExceeded.
	// Default: false
	WaitOnLimit bool
}

// RateLimiter throttles outbound operations with a token bucket. Guards
// place it inside the retry loop so each attempt waits for (or is
// rejected by) its own token.
type RateLimiter struct {
	config  RateLimiterConfig
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	return &RateLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// Allow reports whether an operation may proceed now.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

// Execute runs the operation under the rate limit.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.config.WaitOnLimit {
		if err := rl.limiter.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.limiter.Allow() {
		return ErrRateLimitExceeded
	}

	return op(ctx)
}

// Config returns the rate limiter configuration.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}
