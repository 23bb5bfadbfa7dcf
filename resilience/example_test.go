package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pressgen/pressgen/resilience"
)

func ExampleBackoffDelay() {
	for attempt := 1; attempt <= 4; attempt++ {
		d := resilience.BackoffDelay(attempt, 100*time.Millisecond, 10*time.Second, 2.0)
		fmt.Println(d)
	}
	// Output:
	// 100ms
	// 200ms
	// 400ms
	// 800ms
}

func ExampleNewRetry() {
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	ctx := context.Background()
	attempts := 0

	err := retry.Execute(ctx, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return resilience.Transient(errors.New("upstream 503"))
		}
		return nil
	})

	if err == nil {
		fmt.Printf("Succeeded after %d attempts\n", attempts)
	}
	// Output:
	// Succeeded after 3 attempts
}

func ExampleRetry_ExecuteDetailed() {
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
	})

	out := retry.ExecuteDetailed(context.Background(), func(ctx context.Context) error {
		return resilience.Transient(errors.New("generation API unreachable"))
	})

	fmt.Println("succeeded:", out.Succeeded)
	fmt.Println("attempts:", out.Attempts)
	// Output:
	// succeeded: false
	// attempts: 2
}

func ExampleRegistry() {
	reg := resilience.NewRegistry()
	cfg := resilience.CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Minute,
	}

	ctx := context.Background()
	boom := errors.New("stream disconnected")

	// Streaming failures trip only the streaming breaker.
	stream := reg.Get("llm-chat-stream", cfg)
	for i := 0; i < 2; i++ {
		_ = stream.Execute(ctx, func(ctx context.Context) error { return boom })
	}

	fmt.Println("stream:", reg.Get("llm-chat-stream", cfg).State())
	fmt.Println("chat:", reg.Get("llm-chat", cfg).State())
	// Output:
	// stream: open
	// chat: closed
}

func ExampleGuard() {
	reg := resilience.NewRegistry()
	guard := resilience.NewGuard(reg, "llm-chat", resilience.GuardConfig{
		Breaker: resilience.CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 30 * time.Second,
			CallTimeout:  10 * time.Second,
		},
		Retry: resilience.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
		},
	})

	attempts := 0
	body, err := resilience.GuardDo(context.Background(), guard, func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", resilience.Transient(errors.New("connection reset"))
		}
		return "<article>...</article>", nil
	})

	fmt.Println("err:", err)
	fmt.Println("body:", body)
	// Output:
	// err: <nil>
	// body: <article>...</article>
}
