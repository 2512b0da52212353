// Package executor collects task.Executor decorators: types that wrap
// another Executor and add a cross-cutting concern (here, rate limiting)
// without changing what "submit a task" means to the caller.
package executor

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/taskgraph/task"
)

// RateLimitedExecutor wraps a task.Executor with a golang.org/x/time/rate
// limiter, throttling admission rather than execution: RunTask blocks the
// submitting goroutine until the limiter admits one more task, then
// forwards it to the wrapped Executor unchanged. The throttle sits on the
// push side (RunTask) rather than the pull side, since this engine's
// Executor contract has no dequeue-time hook for a decorator to wrap.
type RateLimitedExecutor struct {
	next    task.Executor
	limiter *rate.Limiter
	ctx     context.Context
}

// NewRateLimitedExecutor wraps next with a limiter admitting at most
// tasksPerSecond RunTask calls per second, with the given burst allowance.
// ctx bounds how long RunTask will wait for admission; pass
// context.Background() for an unbounded wait.
func NewRateLimitedExecutor(next task.Executor, tasksPerSecond float64, burst int, ctx context.Context) *RateLimitedExecutor {
	return &RateLimitedExecutor{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(tasksPerSecond), burst),
		ctx:     ctx,
	}
}

// RunTask waits for the rate limiter to admit one more task, then forwards
// t to the wrapped Executor. If the limiter's context is cancelled before
// admission, the task is still forwarded. A dropped task would silently
// violate the Executor contract's guarantee that every submitted task
// eventually runs, so RateLimitedExecutor only ever delays, never discards.
func (e *RateLimitedExecutor) RunTask(t task.ErasedTask) {
	_ = e.limiter.Wait(e.ctx)
	e.next.RunTask(t)
}
