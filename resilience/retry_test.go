package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 100ms", r.config.InitialDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
	if r.config.RetryIf == nil {
		t.Error("RetryIf default not applied")
	}
}

func TestNewRetry_InitialDelayClampedToMax(t *testing.T) {
	r := NewRetry(RetryConfig{
		InitialDelay: time.Minute,
		MaxDelay:     time.Second,
	})
	if r.config.InitialDelay != time.Second {
		t.Errorf("InitialDelay = %v, want clamped to 1s", r.config.InitialDelay)
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_EventualSuccess(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return Transient(errors.New("flaky upstream"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_Exhaustion(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	var lastErr error
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		lastErr = Transient(errors.New("persistent failure"))
		return lastErr
	})

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	// The error from the final attempt, not an aggregate.
	if err != lastErr {
		t.Errorf("Execute() error = %v, want error from 3rd invocation", err)
	}
}

func TestRetry_NonRetryableShortCircuit(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
	})

	fatal := errors.New("400 invalid request")
	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return fatal
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if err != fatal {
		t.Errorf("Execute() error = %v, want %v", err, fatal)
	}
}

func TestRetry_CircuitOpenNotRetried(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return ErrCircuitOpen
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1: open circuit must not burn retries", attempts)
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen", err)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Execute(ctx, func(ctx context.Context) error {
		return Transient(errors.New("keep trying"))
	})

	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRetry_CustomRetryIf(t *testing.T) {
	retryable := errors.New("retry me")
	fatal := errors.New("do not retry")

	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		RetryIf: func(err error) bool {
			return errors.Is(err, retryable)
		},
	})

	t.Run("retryable error", func(t *testing.T) {
		attempts := 0
		err := r.Execute(context.Background(), func(ctx context.Context) error {
			attempts++
			return retryable
		})

		if err != retryable {
			t.Errorf("Execute() error = %v, want %v", err, retryable)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("fatal error", func(t *testing.T) {
		attempts := 0
		err := r.Execute(context.Background(), func(ctx context.Context) error {
			attempts++
			return fatal
		})

		if err != fatal {
			t.Errorf("Execute() error = %v, want %v", err, fatal)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})
}

func TestRetry_OnRetry(t *testing.T) {
	var calls []int

	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			calls = append(calls, attempt)
		},
	})

	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		return Transient(errors.New("fail"))
	})

	// Two retries follow three attempts.
	if len(calls) != 2 {
		t.Fatalf("OnRetry calls = %d, want 2", len(calls))
	}
	if calls[0] != 1 || calls[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", calls)
	}
}

func TestRetry_OnRetryPanicDoesNotMaskError(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			panic("hook gone wrong")
		},
	})

	realErr := Transient(errors.New("the real failure"))
	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return realErr
	})

	if attempts != 2 {
		t.Errorf("attempts = %d, want 2: hook panic must not abort the sequence", attempts)
	}
	if err != realErr {
		t.Errorf("Execute() error = %v, want the operation's own error", err)
	}
}

func TestRetry_ExecuteDetailed(t *testing.T) {
	t.Run("success metadata", func(t *testing.T) {
		r := NewRetry(RetryConfig{
			MaxAttempts:  5,
			InitialDelay: time.Millisecond,
		})

		attempts := 0
		out := r.ExecuteDetailed(context.Background(), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return Transient(errors.New("transient"))
			}
			return nil
		})

		if !out.Succeeded {
			t.Error("Succeeded = false, want true")
		}
		if out.Err != nil {
			t.Errorf("Err = %v, want nil", out.Err)
		}
		if out.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", out.Attempts)
		}
		if out.TotalDelay <= 0 {
			t.Errorf("TotalDelay = %v, want > 0", out.TotalDelay)
		}
	})

	t.Run("exhaustion metadata", func(t *testing.T) {
		r := NewRetry(RetryConfig{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
		})

		out := r.ExecuteDetailed(context.Background(), func(ctx context.Context) error {
			return Transient(errors.New("still broken"))
		})

		if out.Succeeded {
			t.Error("Succeeded = true, want false")
		}
		if out.Err == nil {
			t.Error("Err = nil, want last error")
		}
		if out.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", out.Attempts)
		}
	})
}

func TestDo(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	value, err := Do(context.Background(), r, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", Transient(errors.New("not yet"))
		}
		return "article-body", nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if value != "article-body" {
		t.Errorf("Do() = %q, want %q", value, "article-body")
	}
}

func TestRetry_JitterStaysWithinBound(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 40 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       true,
	})

	for i := 0; i < 50; i++ {
		delay := r.calculateDelay(2)
		base := 80 * time.Millisecond
		if delay < base || delay > base+base/4 {
			t.Fatalf("jittered delay = %v, want within [%v, %v]", delay, base, base+base/4)
		}
	}
}
