package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testGuard(reg *Registry, name string, maxAttempts, maxFailures int) *Guard {
	return NewGuard(reg, name, GuardConfig{
		Breaker: CircuitBreakerConfig{
			MaxFailures:  maxFailures,
			ResetTimeout: time.Minute,
		},
		Retry: RetryConfig{
			MaxAttempts:  maxAttempts,
			InitialDelay: time.Millisecond,
		},
	})
}

func TestGuard_Success(t *testing.T) {
	g := testGuard(NewRegistry(), "llm-chat", 3, 5)

	invocations := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		invocations++
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if invocations != 1 {
		t.Errorf("invocations = %d, want 1", invocations)
	}
}

func TestGuard_RetriesTransientThenSucceeds(t *testing.T) {
	g := testGuard(NewRegistry(), "llm-chat", 3, 5)

	invocations := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		invocations++
		if invocations < 3 {
			return Transient(errors.New("gateway hiccup"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if invocations != 3 {
		t.Errorf("invocations = %d, want 3", invocations)
	}
}

func TestGuard_OpenCircuitDoesNotBurnRetries(t *testing.T) {
	reg := NewRegistry()
	g := testGuard(reg, "llm-chat", 5, 2)

	ctx := context.Background()
	transient := Transient(errors.New("upstream 503"))

	// One guarded call: retries trip the breaker (2 failures) and the
	// next attempt observes ErrCircuitOpen, which is non-retryable.
	invocations := 0
	err := g.Do(ctx, func(ctx context.Context) error {
		invocations++
		return transient
	})

	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Do() error = %v, want ErrCircuitOpen", err)
	}
	if invocations != 2 {
		t.Errorf("invocations = %d, want 2: op must stop once the circuit opens", invocations)
	}

	// Subsequent guarded calls fail fast without invoking the op at all.
	err = g.Do(ctx, func(ctx context.Context) error {
		invocations++
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Do() error = %v, want ErrCircuitOpen", err)
	}
	if invocations != 2 {
		t.Errorf("invocations = %d, want 2: fast-fail must not invoke op", invocations)
	}
}

func TestGuard_SharedBreakerAcrossGuards(t *testing.T) {
	reg := NewRegistry()
	a := testGuard(reg, "llm-chat", 1, 2)
	b := testGuard(reg, "llm-chat", 1, 2)

	if a.Breaker() != b.Breaker() {
		t.Fatal("guards with one name must share a breaker")
	}

	ctx := context.Background()
	_ = a.Do(ctx, func(ctx context.Context) error { return errors.New("x") })
	_ = b.Do(ctx, func(ctx context.Context) error { return errors.New("y") })

	if a.Breaker().State() != StateOpen {
		t.Error("failures from both guards should trip the shared breaker")
	}
}

func TestGuard_CallTimeoutIsRetried(t *testing.T) {
	reg := NewRegistry()
	g := NewGuard(reg, "llm-chat", GuardConfig{
		Breaker: CircuitBreakerConfig{
			MaxFailures:  10,
			ResetTimeout: time.Minute,
			CallTimeout:  15 * time.Millisecond,
		},
		Retry: RetryConfig{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
		},
	})

	invocations := 0
	err := g.Do(context.Background(), func(ctx context.Context) error {
		invocations++
		if invocations == 1 {
			select {
			case <-time.After(100 * time.Millisecond):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v, want recovery on retry", err)
	}
	if invocations != 2 {
		t.Errorf("invocations = %d, want 2: timeout is transient", invocations)
	}
}

func TestGuard_RateLimiter(t *testing.T) {
	reg := NewRegistry()
	g := NewGuard(reg, "llm-chat", GuardConfig{
		Retry: RetryConfig{MaxAttempts: 1},
		Limiter: NewRateLimiter(RateLimiterConfig{
			Rate:  1,
			Burst: 2,
		}),
	})

	ctx := context.Background()
	allowed := 0
	for i := 0; i < 3; i++ {
		err := g.Do(ctx, func(ctx context.Context) error { return nil })
		if err == nil {
			allowed++
		} else if !errors.Is(err, ErrRateLimitExceeded) {
			t.Fatalf("Do() error = %v, want ErrRateLimitExceeded", err)
		}
	}

	if allowed != 2 {
		t.Errorf("allowed = %d, want burst of 2", allowed)
	}
}

func TestGuard_RateLimitRejectionTripsNothing(t *testing.T) {
	reg := NewRegistry()
	g := NewGuard(reg, "llm-chat", GuardConfig{
		Breaker: CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute},
		Retry:   RetryConfig{MaxAttempts: 1},
		Limiter: NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1}),
	})

	ctx := context.Background()
	_ = g.Do(ctx, func(ctx context.Context) error { return nil }) // consumes burst
	_ = g.Do(ctx, func(ctx context.Context) error { return nil }) // rejected

	// The limiter rejects before the breaker runs, so the breaker never
	// records a failure.
	if g.Breaker().State() != StateClosed {
		t.Errorf("breaker state = %v, want closed", g.Breaker().State())
	}
}

func TestGuardDo(t *testing.T) {
	g := testGuard(NewRegistry(), "llm-chat", 3, 5)

	invocations := 0
	value, err := GuardDo(context.Background(), g, func(ctx context.Context) (int, error) {
		invocations++
		if invocations < 2 {
			return 0, Transient(errors.New("try again"))
		}
		return 42, nil
	})

	if err != nil {
		t.Errorf("GuardDo() error = %v", err)
	}
	if value != 42 {
		t.Errorf("GuardDo() = %d, want 42", value)
	}
}

func TestGuard_DoDetailed(t *testing.T) {
	g := testGuard(NewRegistry(), "llm-chat", 3, 10)

	out := g.DoDetailed(context.Background(), func(ctx context.Context) error {
		return Transient(errors.New("never recovers"))
	})

	if out.Succeeded {
		t.Error("Succeeded = true, want false")
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
}
