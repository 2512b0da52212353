// Package retry layers retry-on-failure over a task.Task as an opt-in
// decorator, not a change to the core scheduling loop: the core itself
// threads no errors through continuation chains and performs no implicit
// recovery or retries of its own. NewTask builds an ordinary task.Task[R]
// whose body retries a fallible callable internally using the backoff
// strategies in internal/algorithms; if every attempt fails, the task
// panics with the last error, surfacing the failure to the worker's own
// panic-recovery path (worker.WithPanicHandler) exactly as any other
// failing task body would.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/utkarsh5026/taskgraph/internal/algorithms"
	"github.com/utkarsh5026/taskgraph/task"
)

// Policy configures a retried task's attempt count and backoff strategy.
type Policy struct {
	MaxAttempts  int
	Backoff      algorithms.BackoffType
	InitialDelay time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
}

// DefaultPolicy is a conservative 3-attempt exponential backoff starting at
// 50ms and capped at 2s.
var DefaultPolicy = Policy{
	MaxAttempts:  3,
	Backoff:      algorithms.BackoffExponential,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

// NewTask wraps f as a task.Task[R] that retries on failure according to
// policy, blocking (with ctx-aware sleeps between attempts) on whatever
// goroutine ends up running it. If f never succeeds within
// policy.MaxAttempts, the returned Task's Run panics with the last error
// rather than returning a zero R silently. A failure after exhausting
// retries is handed to the worker exactly like any other failing task
// body.
func NewTask[R any](ctx context.Context, policy Policy, f func() (R, error)) task.Task[R] {
	return task.New(func() R {
		return runWithRetry(ctx, policy, f)
	})
}

func runWithRetry[R any](ctx context.Context, policy Policy, f func() (R, error)) R {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	backoff := algorithms.NewBackoffStrategy(policy.Backoff, policy.InitialDelay, policy.MaxDelay, policy.JitterFactor)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoff.NextDelay(attempt-1, lastErr)
			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					panic(fmt.Errorf("retry: context cancelled after %d attempt(s): %w", attempt, ctx.Err()))
				}
			}
		}

		result, err := f()
		if err == nil {
			return result
		}
		lastErr = err
	}

	panic(fmt.Errorf("retry: exhausted %d attempt(s): %w", maxAttempts, lastErr))
}
