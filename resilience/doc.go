// Package resilience protects outbound generation-API calls from transient
// and cascading failure.
//
// It provides four composable pieces:
//
//   - Backoff: pure delay computation for retry attempt N (exponential,
//     linear, or constant, with an upper cap).
//
//   - Retry: re-invokes an operation under a RetryConfig, classifying
//     errors as retryable or fatal. A detailed variant returns an Outcome
//     with attempt and delay metadata instead of relying on error
//     propagation alone.
//
//   - CircuitBreaker: a per-resource closed/open/half-open state machine
//     that fails fast once a resource is judged unhealthy, independent of
//     how many retries an individual caller performs. Breakers live in a
//     Registry keyed by resource name; distinct names (for example
//     "llm-chat" and "llm-chat-stream") fail independently.
//
//   - Guard: the unit outbound integrations actually use. It composes a
//     named breaker, an optional rate limiter, and retry into one call:
//
//	reg := resilience.NewRegistry()
//	guard := resilience.NewGuard(reg, "llm-chat", resilience.GuardConfig{
//	    Breaker: resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	        CallTimeout:  60 * time.Second,
//	    },
//	    Retry: resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: time.Second,
//	    },
//	})
//
//	err := guard.Do(ctx, func(ctx context.Context) error {
//	    return callGenerationAPI(ctx)
//	})
//
// Error classification is typed, not string-matched: boundaries wrap
// transport-level failures with Transient, and the default classifier
// retries only those (plus net timeouts and gateway-error signatures from
// libraries that expose only message text). An open circuit is never
// retried; it surfaces as ErrCircuitOpen so callers can degrade gracefully
// instead of burning retry attempts.
package resilience
