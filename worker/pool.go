package worker

import (
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrAlreadyStarted is returned by Pool.Start when the pool has already
// been started once; a Pool is not restartable after Shutdown.
var ErrAlreadyStarted = errors.New("worker: pool already started")

// ErrNotStarted is returned by Pool.Shutdown when called before Start.
var ErrNotStarted = errors.New("worker: pool not started")

// ErrAlreadyShutdown is returned by Pool.Shutdown when called more than
// once.
var ErrAlreadyShutdown = errors.New("worker: pool already shut down")

// Pool owns a bank of WorkerThreads pulling from a shared TaskSource and
// gives them a lifecycle: Start launches every worker, Shutdown joins them
// all concurrently via an errgroup.Group.
type Pool struct {
	mu       sync.Mutex
	source   TaskSource
	workers  []*WorkerThread
	started  atomic.Bool
	shutdown atomic.Bool
	opts     []Option
}

// NewPool builds an unstarted Pool over source. Start launches the
// workers; the pool accepts no tasks directly, callers push work onto
// source (typically a queue.MultiQueue) themselves. opts are forwarded to
// every WorkerThread the pool starts (e.g. WithPanicHandler).
func NewPool(source TaskSource, opts ...Option) *Pool {
	return &Pool{source: source, opts: opts}
}

// Start launches one WorkerThread per sub-queue of the pool's TaskSource.
// Calling Start twice returns ErrAlreadyStarted.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	p.workers = MakeWorkersForQueue(p.source, p.opts...)
	return nil
}

// StartN is Start's variant for a worker count that need not match the
// TaskSource's sub-queue count (e.g. more workers than sub-queues, to
// absorb uneven task durations).
func (p *Pool) StartN(workerCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	p.workers = MakeWorkersForQueueN(p.source, workerCount, p.opts...)
	return nil
}

// Shutdown joins every worker, waiting for each to observe its TaskSource
// run dry and exit. Workers are joined concurrently via an errgroup.Group;
// Join itself cannot fail, but errgroup keeps the fan-out/fan-in shape
// consistent with the rest of this package rather than a hand-rolled
// sync.WaitGroup.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	if !p.started.Load() {
		p.mu.Unlock()
		return ErrNotStarted
	}
	if !p.shutdown.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return ErrAlreadyShutdown
	}
	workers := p.workers
	p.mu.Unlock()

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			w.Join()
			return nil
		})
	}
	return g.Wait()
}

// WorkerCount reports how many WorkerThreads the pool launched. It returns
// 0 before Start.
func (p *Pool) WorkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}
