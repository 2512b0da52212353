package worker

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/utkarsh5026/taskgraph/task"
)

// WorkSource is pulled from, never pushed to: a WorkerThread calls it
// repeatedly and invokes whatever ErasedTask it returns. The second return
// value reports whether a task was actually available.
type WorkSource func() (task.ErasedTask, bool)

// TaskSource is anything a WorkSource can be built from via AsWorkSource,
// satisfied structurally by *queue.MultiQueue without this package needing
// to import it.
type TaskSource interface {
	Pop(preferred int) (task.ErasedTask, bool)
	NumberOfQueues() int
}

// AsWorkSource adapts a TaskSource into a WorkSource that always prefers the
// given sub-queue index.
func AsWorkSource(source TaskSource, preferredQueueIndex int) WorkSource {
	return func() (task.ErasedTask, bool) {
		return source.Pop(preferredQueueIndex)
	}
}

// workerState is the mutable, mutex-guarded handshake surface between a
// WorkerThread handle and its goroutine: the current WorkSource, a flag
// marking that it just changed (so the running loop knows to re-read it
// before the next pull), and a stop flag. Held behind a pointer so the
// owning goroutine and the WorkerThread handle share one instance.
type workerState struct {
	mu                sync.Mutex
	workSource        WorkSource
	workSourceChanged bool
	stop              atomic.Bool
	onPanic           func(recovered any)
}

// Option configures a WorkerThread at construction time.
type Option func(*workerState)

// WithPanicHandler installs a hook invoked when a task's body panics. The
// worker's default behavior on a panic is to continue with the next task
// regardless; WithPanicHandler only lets the caller observe the failure,
// it never changes that default.
func WithPanicHandler(h func(recovered any)) Option {
	return func(s *workerState) { s.onPanic = h }
}

// WorkerThread is a single long-lived goroutine that repeatedly pulls
// ErasedTasks from its current WorkSource and invokes them. Unlike an OS
// thread, it costs nothing to park when idle: Gosched simply yields the P
// back to the Go scheduler. The pull loop polls rather than blocking on a
// channel receive, since a WorkSource (e.g. a MultiQueue) is a shared,
// poll-based structure that many WorkerThreads pull from concurrently.
type WorkerThread struct {
	state *workerState
	done  chan struct{}
}

// NewWorkerThread starts a goroutine pulling from source and returns a
// handle to it. Construction blocks until the goroutine has installed its
// state and is ready to accept WorkFor calls, via a buffered handshake
// channel rather than a spin-yield loop.
func NewWorkerThread(source WorkSource, opts ...Option) *WorkerThread {
	ready := make(chan *workerState, 1)
	done := make(chan struct{})
	go workerMain(source, opts, ready, done)
	state := <-ready
	return &WorkerThread{state: state, done: done}
}

func workerMain(initial WorkSource, opts []Option, ready chan<- *workerState, done chan<- struct{}) {
	state := &workerState{workSource: initial}
	for _, opt := range opts {
		opt(state)
	}
	ready <- state
	defer close(done)

	for {
		state.mu.Lock()
		stopRequested := state.stop.Load()
		changed := state.workSourceChanged
		if stopRequested && !changed {
			state.mu.Unlock()
			return
		}
		current := state.workSource
		state.workSourceChanged = false
		state.mu.Unlock()

		runUntilSourceChanges(state, current)
	}
}

// runUntilSourceChanges pulls from source until WorkFor installs a new one
// (observed via workSourceChanged) or stop is requested with nothing left
// to drain from the current source's perspective.
func runUntilSourceChanges(state *workerState, source WorkSource) {
	for {
		state.mu.Lock()
		changed := state.workSourceChanged
		state.mu.Unlock()
		if changed {
			return
		}

		t, ok := source()
		if ok {
			invokeWithRecovery(state, t)
			continue
		}
		if state.stop.Load() {
			return
		}
		runtime.Gosched()
	}
}

// invokeWithRecovery runs t, converting a panic in its body into a call to
// the worker's panic handler (if any) and letting the worker move on to its
// next pull: there are no locks held at invocation to release, and the
// worker continues with the next task by default.
func invokeWithRecovery(state *workerState, t task.ErasedTask) {
	defer func() {
		if r := recover(); r != nil && state.onPanic != nil {
			state.onPanic(r)
		}
	}()
	t.Invoke()
}

// WorkFor hot-swaps the WorkSource a running WorkerThread pulls from. The
// thread finishes whatever it is doing and picks up the new source on its
// next poll.
func (w *WorkerThread) WorkFor(source WorkSource) {
	w.state.mu.Lock()
	defer w.state.mu.Unlock()
	w.state.workSource = source
	w.state.workSourceChanged = true
}

// Join signals the worker to stop once its current WorkSource reports no
// more work, and blocks until its goroutine has exited. Join is idempotent:
// calling it again on an already-joined WorkerThread returns immediately.
func (w *WorkerThread) Join() {
	if w.state == nil {
		return
	}
	w.state.stop.Store(true)
	<-w.done
	w.state = nil
}

// Joinable reports whether the WorkerThread still owns a live goroutine.
func (w *WorkerThread) Joinable() bool {
	return w.state != nil
}

// MakeWorkersForQueue starts one WorkerThread per sub-queue of source, each
// preferring its own index.
func MakeWorkersForQueue(source TaskSource, opts ...Option) []*WorkerThread {
	return MakeWorkersForQueueN(source, source.NumberOfQueues(), opts...)
}

// MakeWorkersForQueueN starts workerCount WorkerThreads pulling from source,
// cycling their preferred sub-queue index through [0, source.NumberOfQueues()).
func MakeWorkersForQueueN(source TaskSource, workerCount int, opts ...Option) []*WorkerThread {
	n := source.NumberOfQueues()
	workers := make([]*WorkerThread, workerCount)
	for i := range workers {
		workers[i] = NewWorkerThread(AsWorkSource(source, i%n), opts...)
	}
	return workers
}

// AssignThreadPoolToWorkers repoints every worker in workers at source, each
// preferring the sub-queue index matching its position. Useful for handing
// an already-running worker bank a new MultiQueue to drain.
func AssignThreadPoolToWorkers(workers []*WorkerThread, source TaskSource) {
	n := source.NumberOfQueues()
	for i, w := range workers {
		w.WorkFor(AsWorkSource(source, i%n))
	}
}
