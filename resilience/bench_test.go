package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

// BenchmarkCircuitBreaker_Execute_Closed measures happy path execution.
func BenchmarkCircuitBreaker_Execute_Closed(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  100,
		ResetTimeout: time.Minute,
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkCircuitBreaker_Execute_Open measures fast-fail overhead.
func BenchmarkCircuitBreaker_Execute_Open(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Hour,
	})
	ctx := context.Background()
	_ = cb.Execute(ctx, func(ctx context.Context) error {
		return errors.New("trip")
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkRegistry_Get measures named-breaker lookup.
func BenchmarkRegistry_Get(b *testing.B) {
	reg := NewRegistry()
	cfg := CircuitBreakerConfig{}
	reg.Get("llm-chat", cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Get("llm-chat", cfg)
	}
}

// BenchmarkGuard_Do measures the full composed happy path.
func BenchmarkGuard_Do(b *testing.B) {
	reg := NewRegistry()
	g := NewGuard(reg, "llm-chat", GuardConfig{
		Retry: RetryConfig{MaxAttempts: 3},
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Do(ctx, func(ctx context.Context) error {
			return nil
		})
	}
}

// BenchmarkDefaultRetryIf measures classification cost for the slow path
// (message scan).
func BenchmarkDefaultRetryIf(b *testing.B) {
	err := errors.New("read tcp 10.0.0.1:443: connection reset by peer")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DefaultRetryIf(err)
	}
}

// BenchmarkCircuitBreaker_Concurrent measures parallel execution.
func BenchmarkCircuitBreaker_Concurrent(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  100,
		ResetTimeout: time.Minute,
	})
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = cb.Execute(ctx, func(ctx context.Context) error {
				return nil
			})
		}
	})
}
