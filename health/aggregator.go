package health

import (
	"context"
	"sync"
	"time"
)

// Report is the combined outcome of all registered checks. Overall is
// the worst individual status.
type Report struct {
	Overall Status
	Names   []string
	Results map[string]Result
}

// Aggregator runs registered checks concurrently under one timeout.
type Aggregator struct {
	timeout  time.Duration
	mu       sync.Mutex
	names    []string
	checkers map[string]Checker
}

// NewAggregator creates an aggregator. A non-positive timeout defaults
// to 10 seconds.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{
		timeout:  timeout,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker. Re-registering a name replaces the checker
// but keeps its position.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.checkers[c.Name()]; !exists {
		a.names = append(a.names, c.Name())
	}
	a.checkers[c.Name()] = c
}

// Check runs every registered checker concurrently and aggregates the
// results. A checker that panics counts as unhealthy.
func (a *Aggregator) Check(ctx context.Context) Report {
	a.mu.Lock()
	names := make([]string, len(a.names))
	copy(names, a.names)
	checkers := make(map[string]Checker, len(a.checkers))
	for name, c := range a.checkers {
		checkers[name] = c
	}
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var (
		wg      sync.WaitGroup
		resmu   sync.Mutex
		results = make(map[string]Result, len(names))
	)
	for _, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := runChecker(ctx, checkers[name])
			resmu.Lock()
			results[name] = result
			resmu.Unlock()
		}()
	}
	wg.Wait()

	overall := StatusHealthy
	for _, r := range results {
		if r.Status > overall {
			overall = r.Status
		}
	}
	return Report{Overall: overall, Names: names, Results: results}
}

func runChecker(ctx context.Context, c Checker) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Status: StatusUnhealthy, Message: "check panicked"}
		}
	}()
	return c.Check(ctx)
}
