package worker_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/taskgraph/queue"
	"github.com/utkarsh5026/taskgraph/task"
	"github.com/utkarsh5026/taskgraph/worker"
)

func TestPool_StartRunsQueuedTasks(t *testing.T) {
	q, err := queue.New(4)
	if err != nil {
		t.Fatalf("queue.New(4) error: %v", err)
	}

	p := worker.NewPool(q)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var ran atomic.Int64
	const n = 200
	for i := 0; i < n; i++ {
		q.Push(task.From(func() { ran.Add(1) }))
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && ran.Load() != n {
		time.Sleep(time.Millisecond)
	}

	if got := ran.Load(); got != n {
		t.Fatalf("ran = %d, want %d", got, n)
	}

	if err := p.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
}

func TestPool_StartTwiceFails(t *testing.T) {
	q, _ := queue.New(2)
	p := worker.NewPool(q)

	if err := p.Start(); err != nil {
		t.Fatalf("first Start() error: %v", err)
	}
	defer p.Shutdown()

	if err := p.Start(); err != worker.ErrAlreadyStarted {
		t.Fatalf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestPool_ShutdownBeforeStartFails(t *testing.T) {
	q, _ := queue.New(2)
	p := worker.NewPool(q)

	if err := p.Shutdown(); err != worker.ErrNotStarted {
		t.Fatalf("Shutdown() error = %v, want ErrNotStarted", err)
	}
}

func TestPool_DoubleShutdownFails(t *testing.T) {
	q, _ := queue.New(2)
	p := worker.NewPool(q)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := p.Shutdown(); err != nil {
		t.Fatalf("first Shutdown() error: %v", err)
	}
	if err := p.Shutdown(); err != worker.ErrAlreadyShutdown {
		t.Fatalf("second Shutdown() error = %v, want ErrAlreadyShutdown", err)
	}
}

// TestPool_ThenChainRunsEndToEnd checks a root producer chained with Then,
// submitted through a real MultiQueue and drained by a real worker bank.
func TestPool_ThenChainRunsEndToEnd(t *testing.T) {
	q, err := queue.New(2)
	if err != nil {
		t.Fatalf("queue.New(2) error: %v", err)
	}
	p := worker.NewPool(q)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer p.Shutdown()

	var mu sync.Mutex
	var delivered int
	done := make(chan struct{})

	composite := task.New(func() int { return 21 }).Then(func(r int) {
		mu.Lock()
		delivered = r * 2
		mu.Unlock()
		close(done)
	})

	q.Push(composite.AsErasedTask())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("composite task did not run within timeout")
	}

	mu.Lock()
	defer mu.Unlock()
	if delivered != 42 {
		t.Fatalf("delivered = %d, want 42", delivered)
	}
}
