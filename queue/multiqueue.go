// Package queue implements MultiQueue, a bank of try-lock-guarded FIFO
// sub-queues that spreads ErasedTask insertions round-robin and pops by
// scanning from a preferred index. It uses sync.Mutex.TryLock as a
// non-blocking substitute for a spinlock, sync/atomic counters, and
// cache-line padding on the hot fields.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/utkarsh5026/taskgraph/task"
)

// ErrNoQueues is returned by New when asked to build a zero-width
// MultiQueue; a multi-queue with no sub-queues cannot accept pushes.
var ErrNoQueues = errors.New("queue: MultiQueue requires at least one sub-queue")

const cacheLinePadding = 64

// subQueue is a single FIFO of task.ErasedTask guarded by a try-lock. The
// mutex is never blocked on; Push/Pop only ever attempt TryLock, so a
// contended sub-queue is skipped rather than waited on, keeping each
// attempt's critical section O(1) and bounded.
type subQueue struct {
	mu    sync.Mutex
	items []task.ErasedTask
	_     [cacheLinePadding]byte
}

func (q *subQueue) tryPush(t task.ErasedTask) bool {
	if !q.mu.TryLock() {
		return false
	}
	defer q.mu.Unlock()
	q.items = append(q.items, t)
	return true
}

func (q *subQueue) tryPop() (task.ErasedTask, bool) {
	if !q.mu.TryLock() {
		return task.ErasedTask{}, false
	}
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return task.ErasedTask{}, false
	}
	t := q.items[0]
	q.items[0] = task.ErasedTask{}
	q.items = q.items[1:]
	return t, true
}

// MultiQueue is a fixed-width bank of N independent FIFO sub-queues. It
// satisfies task.Executor via RunTask.
//
// Invariants: the sum of sub-queue sizes equals the atomic counter at
// quiescence; a push succeeds on exactly one sub-queue and the counter is
// incremented before the next push can observe it; a pop that returns a
// task decrements the counter after removing it. Within one sub-queue,
// FIFO order is preserved; across sub-queues, no order is promised.
type MultiQueue struct {
	queues []subQueue

	// rotor is deliberately plain, not atomic; a torn read under concurrent
	// pushers only skews which sub-queue is preferred next.
	rotor int

	queued atomic.Int64
}

// New builds a MultiQueue with n sub-queues. n must be at least 1.
func New(n int) (*MultiQueue, error) {
	if n < 1 {
		return nil, ErrNoQueues
	}
	return &MultiQueue{queues: make([]subQueue, n)}, nil
}

// NumberOfQueues returns the fixed sub-queue count.
func (q *MultiQueue) NumberOfQueues() int {
	return len(q.queues)
}

// NumberOfQueuedTasks returns the eventually-consistent total of queued
// tasks, used only for Pop's termination test and for observability.
func (q *MultiQueue) NumberOfQueuedTasks() int {
	return int(q.queued.Load())
}

// HasWorkQueued reports whether any task is currently queued.
func (q *MultiQueue) HasWorkQueued() bool {
	return q.NumberOfQueuedTasks() > 0
}

// Push assigns t to the rotor's current preferred sub-queue, then advances
// the rotor. If the preferred sub-queue is contended, Push probes
// subsequent sub-queues (wrapping) until one accepts it; when the
// accepting index differs from the preferred one, the rotor is advanced to
// just past the originally preferred index so later pushes don't keep
// piling onto a contended slot.
func (q *MultiQueue) Push(t task.ErasedTask) {
	preferred := q.rotor
	q.rotor = (q.rotor + 1) % len(q.queues)
	accepted := q.pushPreferred(t, preferred)
	if accepted != preferred {
		q.rotor = (preferred + 1) % len(q.queues)
	}
}

// PushPreferred pushes t starting from the caller-supplied preferred
// sub-queue index, probing forward (wrapping) on contention, and returns
// the index that accepted it.
func (q *MultiQueue) PushPreferred(t task.ErasedTask, preferred int) int {
	return q.pushPreferred(t, preferred)
}

func (q *MultiQueue) pushPreferred(t task.ErasedTask, preferred int) int {
	n := len(q.queues)
	for i := ((preferred % n) + n) % n; ; i = (i + 1) % n {
		if q.queues[i].tryPush(t) {
			q.queued.Add(1)
			return i
		}
	}
}

// Pop scans sub-queues starting at preferred (wrapping) while the
// queued-task counter is positive, returning the first task it manages to
// remove. A full scan that finds nothing, because every sub-queue was
// momentarily contended or empty, simply retries; Pop only returns the
// zero value once it observes the counter at zero.
func (q *MultiQueue) Pop(preferred int) (task.ErasedTask, bool) {
	n := len(q.queues)
	for q.queued.Load() > 0 {
		for i := 0; i < n; i++ {
			idx := (preferred + i) % n
			if t, ok := q.queues[idx].tryPop(); ok {
				q.queued.Add(-1)
				return t, true
			}
		}
	}
	return task.ErasedTask{}, false
}

// RunTask satisfies task.Executor: it is an alias for Push.
func (q *MultiQueue) RunTask(t task.ErasedTask) {
	q.Push(t)
}
