package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the resource recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening
	// the circuit.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long to stay open before allowing a half-open
	// probe.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// CallTimeout bounds each wrapped operation. An operation that does
	// not settle within this duration counts as a failure and returns
	// ErrTimeout. Zero disables the bound.
	CallTimeout time.Duration

	// HalfOpenMaxRequests is the max probes allowed in half-open state.
	// Default: 1
	HalfOpenMaxRequests int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error should count as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// CircuitBreaker prevents repeated calls to a resource that is currently
// failing, giving it time to recover. State transitions happen under a
// mutex so concurrent callers observe them atomically.
type CircuitBreaker struct {
	name   string
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	halfOpenCount int
}

// NewCircuitBreaker creates a new circuit breaker. Most callers obtain
// breakers through a Registry instead, so that state accumulates across
// call sites sharing a resource name.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxRequests <= 0 {
		config.HalfOpenMaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Name returns the resource name the breaker guards. Empty for breakers
// constructed outside a Registry.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute runs the operation through the circuit breaker. When the
// circuit is open it returns ErrCircuitOpen without invoking op. The
// operation is bounded by CallTimeout when one is configured.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := cb.invoke(ctx, op)
	cb.afterRequest(err)
	return err
}

// invoke runs op, bounded by CallTimeout when configured. The timeout is
// cooperative: op receives a context that expires, and the caller stops
// waiting once it does.
func (cb *CircuitBreaker) invoke(ctx context.Context, op func(context.Context) error) error {
	if cb.config.CallTimeout <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, cb.config.CallTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset resets the circuit breaker to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.halfOpenCount = 0

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			return ErrCircuitOpen
		}
		cb.halfOpenCount++
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	isFailure := cb.config.IsFailure(err)
	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			if cb.failures >= cb.config.MaxFailures {
				cb.openedAt = time.Now()
				cb.state = StateOpen
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if isFailure {
			// Failed probe: reopen and restart the reset window.
			cb.openedAt = time.Now()
			cb.state = StateOpen
		} else {
			cb.state = StateClosed
			cb.failures = 0
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenCount = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		Name:     cb.name,
		State:    cb.currentStateLocked(),
		Failures: cb.failures,
		OpenedAt: cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	Name     string
	State    State
	Failures int
	OpenedAt time.Time
}
