package task

import "sync/atomic"

// erasedTaskState is the shared, heap-allocated payload behind an
// ErasedTask: the callable plus the single-shot guard. ErasedTask holds
// only a pointer to this, so copying an ErasedTask value copies the
// handle, not the guard, and the wrapped callable still runs at most once.
type erasedTaskState struct {
	fn       func()
	consumed atomic.Bool
}

// ErasedTask is a type-erased, single-shot, nullary callable. It is the
// currency that crosses Executor boundaries: every Task[R] and
// ScheduledContinuation eventually collapses into one of these before it is
// handed to an Executor's RunTask.
//
// Invoking an empty task, or invoking the same task twice, is a
// precondition violation and panics rather than silently doing nothing or
// running the callable again.
type ErasedTask struct {
	state *erasedTaskState
}

// From wraps f as an ErasedTask. f must be non-nil.
func From(f func()) ErasedTask {
	if f == nil {
		panic("task: From requires a non-nil callable")
	}
	return ErasedTask{state: &erasedTaskState{fn: f}}
}

// Empty reports whether this ErasedTask holds no callable, either because
// it was never constructed with one (the zero value) or because it, or a
// copy sharing its underlying state, was already invoked.
func (t ErasedTask) Empty() bool {
	return t.state == nil || t.state.consumed.Load()
}

// Invoke runs the stored callable exactly once, consuming it. Invoking an
// empty ErasedTask, or invoking the same ErasedTask (or a copy of it) a
// second time, is a programming error and panics; precondition violations
// fail fast rather than returning a value error.
func (t ErasedTask) Invoke() {
	if t.state == nil {
		panic("task: Invoke called on an empty ErasedTask")
	}
	if !t.state.consumed.CompareAndSwap(false, true) {
		panic("task: ErasedTask invoked more than once")
	}
	fn := t.state.fn
	t.state.fn = nil
	fn()
}
