package resilience

import (
	"context"
)

// GuardConfig configures a Guard.
type GuardConfig struct {
	// Breaker configures the named circuit breaker. Used only when the
	// registry creates the breaker; an existing breaker keeps its config.
	Breaker CircuitBreakerConfig

	// Retry configures the retry loop wrapped around the breaker.
	Retry RetryConfig

	// Limiter optionally throttles attempts. Shared limiters may be
	// passed to several guards hitting the same upstream quota.
	Limiter *RateLimiter
}

// Guard is the unit outbound integrations actually use. It composes, from
// the inside out: the CallTimeout-bounded operation, the named circuit
// breaker, the optional rate limiter, and retry.
//
// Because retry wraps the breaker, a circuit that opens mid-sequence is
// observed by the retry classifier; ErrCircuitOpen is non-retryable, so
// an open circuit surfaces to the caller without burning attempts.
type Guard struct {
	name    string
	breaker *CircuitBreaker
	retry   *Retry
	limiter *RateLimiter
}

// NewGuard creates a guard around the named breaker from reg, creating
// the breaker on first use with cfg.Breaker.
func NewGuard(reg *Registry, name string, cfg GuardConfig) *Guard {
	return &Guard{
		name:    name,
		breaker: reg.Get(name, cfg.Breaker),
		retry:   NewRetry(cfg.Retry),
		limiter: cfg.Limiter,
	}
}

// Do runs the operation through the guard.
func (g *Guard) Do(ctx context.Context, op func(context.Context) error) error {
	return g.retry.Execute(ctx, func(ctx context.Context) error {
		return g.attempt(ctx, op)
	})
}

// DoDetailed is Do with attempt and delay accounting.
func (g *Guard) DoDetailed(ctx context.Context, op func(context.Context) error) Outcome {
	return g.retry.ExecuteDetailed(ctx, func(ctx context.Context) error {
		return g.attempt(ctx, op)
	})
}

func (g *Guard) attempt(ctx context.Context, op func(context.Context) error) error {
	if g.limiter == nil {
		return g.breaker.Execute(ctx, op)
	}
	return g.limiter.Execute(ctx, func(ctx context.Context) error {
		return g.breaker.Execute(ctx, op)
	})
}

// GuardDo runs a value-returning operation through the guard.
func GuardDo[T any](ctx context.Context, g *Guard, op func(context.Context) (T, error)) (T, error) {
	var value T
	err := g.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

// Name returns the guarded resource name.
func (g *Guard) Name() string { return g.name }

// Breaker returns the underlying circuit breaker.
func (g *Guard) Breaker() *CircuitBreaker { return g.breaker }
