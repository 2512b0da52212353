package task

import "sync"

// Future is a one-shot result sink. It is an illustrative terminal
// continuation, a thin conformance example rather than a full
// future/promise library.
//
// Future is built on the mutex-guarded-state shape used elsewhere in this
// engine for a small piece of shared state (WorkerThread's source mutex),
// simplified to an unkeyed single-value contract.
type Future[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
}

// NewFuture constructs an empty, not-yet-ready future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{}
}

// SetValue fulfills the future. Calling it more than once is a no-op after
// the first call; only the first value published wins.
func (f *Future[T]) SetValue(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ready {
		return
	}
	f.value = v
	f.ready = true
}

// IsReady is a non-blocking predicate: true once a value has been
// published, without consuming it.
func (f *Future[T]) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

// GetIfReady returns the value and true if the future is ready, consuming
// it (a second call returns false); otherwise it returns the zero value
// and false without blocking.
func (f *Future[T]) GetIfReady() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		var zero T
		return zero, false
	}
	v := f.value
	var zero T
	f.value = zero
	f.ready = false
	return v, true
}

// StoreIn returns a one-shot callable usable as a terminal Then
// continuation: invoking it fulfills future with the delivered value.
//
//	root := task.New(func() int { return 5 })
//	var f task.Future[int]
//	composite := root.Then(task.StoreIn(&f))
func StoreIn[T any](future *Future[T]) func(T) {
	return func(v T) { future.SetValue(v) }
}
