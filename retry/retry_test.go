package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/utkarsh5026/taskgraph/internal/algorithms"
)

func TestNewTask_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	tk := NewTask(context.Background(), DefaultPolicy, func() (int, error) {
		calls++
		return 42, nil
	})

	if got := tk.Run(); got != 42 {
		t.Fatalf("Run() = %d, want 42", got)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestNewTask_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	policy := Policy{
		MaxAttempts:  3,
		Backoff:      algorithms.BackoffExponential,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
	}
	tk := NewTask(context.Background(), policy, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	if got := tk.Run(); got != "ok" {
		t.Fatalf("Run() = %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestNewTask_PanicsAfterExhaustingAttempts(t *testing.T) {
	policy := Policy{
		MaxAttempts:  2,
		Backoff:      algorithms.BackoffExponential,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
	calls := 0
	tk := NewTask(context.Background(), policy, func() (int, error) {
		calls++
		return 0, errors.New("permanent")
	})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Run to panic after exhausting retries")
		}
		if calls != 2 {
			t.Fatalf("calls = %d, want 2", calls)
		}
	}()
	tk.Run()
}

func TestNewTask_ContextCancelledDuringBackoffPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{
		MaxAttempts:  5,
		Backoff:      algorithms.BackoffExponential,
		InitialDelay: time.Hour,
		MaxDelay:     time.Hour,
	}

	calls := 0
	tk := NewTask(ctx, policy, func() (int, error) {
		calls++
		if calls == 1 {
			cancel()
		}
		return 0, errors.New("transient")
	})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Run to panic once the context was cancelled mid-backoff")
		}
	}()
	tk.Run()
}
