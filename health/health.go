package health

import (
	"context"
	"time"
)

// Status is the outcome class of a check.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one check.
type Result struct {
	Status   Status
	Message  string
	Duration time.Duration
	Err      error
}

// Checker is one named readiness check.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// Pinger matches clients that expose a ping-style health method.
type Pinger interface {
	Health(ctx context.Context) error
}

type pingChecker struct {
	name   string
	pinger Pinger
}

// NewPingChecker wraps a Pinger as a Checker. A nil ping error is
// healthy; anything else is unhealthy with the error attached.
func NewPingChecker(name string, p Pinger) Checker {
	return &pingChecker{name: name, pinger: p}
}

func (c *pingChecker) Name() string { return c.name }

func (c *pingChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.pinger.Health(ctx)
	result := Result{Duration: time.Since(start)}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = "unreachable"
		result.Err = err
		return result
	}
	result.Status = StatusHealthy
	result.Message = "ok"
	return result
}

type checkerFunc struct {
	name string
	fn   func(ctx context.Context) Result
}

// NewCheckerFunc adapts a function to the Checker interface.
func NewCheckerFunc(name string, fn func(ctx context.Context) Result) Checker {
	return &checkerFunc{name: name, fn: fn}
}

func (c *checkerFunc) Name() string { return c.name }

func (c *checkerFunc) Check(ctx context.Context) Result { return c.fn(ctx) }
