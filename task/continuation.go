package task

// ScheduledContinuation references (non-owning) an Executor and owns a
// callable A -> R. Invoking it with an A packages the call as an
// ErasedTask and submits it to the referenced Executor instead of running
// it inline. Chaining Then extends the owned callable to also invoke a
// plain continuation right after it, inside the submitted task, and
// further Thens continue to chain on the same Executor.
//
// The Executor referenced by a ScheduledContinuation must outlive every
// ScheduledContinuation that targets it, including ones transitively
// contained inside a when_all joint continuation. The core does not own
// executors and does not enforce this lifetime.
type ScheduledContinuation[A, R any] struct {
	executor Executor
	fn       func(A) R
}

// Continuation wraps f as a ScheduledContinuation targeting executor.
func Continuation[A, R any](f func(A) R, executor Executor) ScheduledContinuation[A, R] {
	return ScheduledContinuation[A, R]{executor: executor, fn: f}
}

// Continuation1 binds one extra argument into f up front; the returned
// ScheduledContinuation still accepts only the chain's delivered value as
// its invocation argument.
func Continuation1[A, B, R any](f func(A, B) R, executor Executor, b B) ScheduledContinuation[A, R] {
	return ScheduledContinuation[A, R]{executor: executor, fn: func(a A) R { return f(a, b) }}
}

// Then extends the owned callable so that its result is also handed to c.
// c runs inside the submitted ErasedTask, right after the owned callable,
// on whatever goroutine the Executor runs that task on. The continuation
// still targets the same Executor.
func (sc ScheduledContinuation[A, R]) Then(c func(R)) ScheduledContinuation[A, R] {
	fn := sc.fn
	return ScheduledContinuation[A, R]{executor: sc.executor, fn: func(a A) R {
		r := fn(a)
		c(r)
		return r
	}}
}

// Submit packages fn(a) as an ErasedTask and hands it to the referenced
// Executor. The result, if any, is discarded by the core: a chain that
// needs the value must capture it via a continuation registered with Then
// before Submit runs, or via a terminal sink like StoreIn.
func (sc ScheduledContinuation[A, R]) Submit(a A) {
	fn := sc.fn
	sc.executor.RunTask(From(func() { fn(a) }))
}

// ThenSchedule attaches a ScheduledContinuation to a Task. The returned
// Task keeps the root's result type A (the same result-type-preservation
// rule Then follows): executing it runs the root to produce an A, then
// submits sc's ErasedTask carrying that A to sc's Executor, and finally
// returns the A itself so further same-type chaining or delivery (e.g.
// inside when_all) is still possible.
//
// This is a free function rather than a method because it introduces a
// second type parameter (R, sc's own result type) beyond the receiver's.
// Go does not allow generic methods to add type parameters of their own.
func ThenSchedule[A, R any](t Task[A], sc ScheduledContinuation[A, R]) Task[A] {
	root := t
	return New(func() A {
		a := root.Run()
		sc.Submit(a)
		return a
	})
}
