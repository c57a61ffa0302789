package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewWorkerPool_Defaults(t *testing.T) {
	logger := zap.NewNop()

	pool := NewWorkerPool(Config{}, logger)
	defer pool.Close()

	stats := pool.Stats()
	if stats["workers"].(int) != 4 {
		t.Errorf("Expected 4 workers by default, got %d", stats["workers"].(int))
	}
	if stats["submitted"].(int) != 0 {
		t.Errorf("Expected 0 submitted tasks, got %d", stats["submitted"].(int))
	}
}

func TestWorkerPool_SubmitExecutes(t *testing.T) {
	pool := NewWorkerPool(DefaultConfig(), nil)

	done := make(chan bool)
	ok := pool.Submit(Task{Name: "test-task", Run: func(ctx context.Context) error {
		done <- true
		return nil
	}})
	if !ok {
		t.Fatal("Expected Submit to accept the task")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for task to run")
	}

	pool.Close()

	stats := pool.Stats()
	if stats["submitted"].(int) != 1 {
		t.Errorf("Expected 1 submitted task, got %d", stats["submitted"].(int))
	}
	if stats["completed"].(int) != 1 {
		t.Errorf("Expected 1 completed task, got %d", stats["completed"].(int))
	}
}

func TestWorkerPool_SubmitNilRun(t *testing.T) {
	pool := NewWorkerPool(DefaultConfig(), nil)
	defer pool.Close()

	if pool.Submit(Task{Name: "no-op"}) {
		t.Error("Expected submit of a task without Run to fail")
	}
}

func TestWorkerPool_QueueFull(t *testing.T) {
	config := Config{Workers: 1, QueueSize: 1, TaskTimeout: 5 * time.Second}
	pool := NewWorkerPool(config, nil)

	started := make(chan bool)
	release := make(chan bool)
	blocker := Task{Name: "blocker", Run: func(ctx context.Context) error {
		started <- true
		<-release
		return nil
	}}

	if !pool.Submit(blocker) {
		t.Fatal("Expected first submit to succeed")
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for worker to pick up task")
	}

	// The single worker is busy, so this one fills the queue.
	if !pool.Submit(Task{Name: "queued", Run: func(ctx context.Context) error { return nil }}) {
		t.Fatal("Expected second submit to succeed")
	}

	if pool.Submit(Task{Name: "overflow", Run: func(ctx context.Context) error { return nil }}) {
		t.Error("Expected submit to fail while the queue is full")
	}

	close(release)
	pool.Close()

	stats := pool.Stats()
	if stats["dropped"].(int) != 1 {
		t.Errorf("Expected 1 dropped task, got %d", stats["dropped"].(int))
	}
	if stats["completed"].(int) != 2 {
		t.Errorf("Expected 2 completed tasks, got %d", stats["completed"].(int))
	}
}

func TestWorkerPool_FailedTask(t *testing.T) {
	pool := NewWorkerPool(DefaultConfig(), nil)

	pool.Submit(Task{Name: "failing", Run: func(ctx context.Context) error {
		return errors.New("smtp unreachable")
	}})
	pool.Close()

	stats := pool.Stats()
	if stats["failed"].(int) != 1 {
		t.Errorf("Expected 1 failed task, got %d", stats["failed"].(int))
	}
	if stats["completed"].(int) != 0 {
		t.Errorf("Expected 0 completed tasks, got %d", stats["completed"].(int))
	}
}

func TestWorkerPool_TaskTimeout(t *testing.T) {
	config := Config{Workers: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}
	pool := NewWorkerPool(config, nil)

	pool.Submit(Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	pool.Close()

	stats := pool.Stats()
	if stats["failed"].(int) != 1 {
		t.Errorf("Expected timed out task to count as failed, got %d", stats["failed"].(int))
	}
}

func TestWorkerPool_CloseDrains(t *testing.T) {
	pool := NewWorkerPool(Config{Workers: 2, QueueSize: 16}, nil)

	var ran int64
	for i := 0; i < 10; i++ {
		pool.Submit(Task{Name: "work", Run: func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		}})
	}

	pool.Close()

	if got := atomic.LoadInt64(&ran); got != 10 {
		t.Errorf("Expected all 10 tasks to run before Close returned, got %d", got)
	}

	// Closing twice must not panic, and late tasks are rejected.
	pool.Close()
	if pool.Submit(Task{Name: "late", Run: func(ctx context.Context) error { return nil }}) {
		t.Error("Expected submit after Close to fail")
	}
}

func TestWorkerPool_ConcurrentSubmit(t *testing.T) {
	pool := NewWorkerPool(Config{Workers: 4, QueueSize: 64}, nil)

	var ran int64
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			pool.Submit(Task{Name: "concurrent", Run: func(ctx context.Context) error {
				atomic.AddInt64(&ran, 1)
				return nil
			}})
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Timeout waiting for goroutines")
		}
	}

	pool.Close()

	if got := atomic.LoadInt64(&ran); got != 10 {
		t.Errorf("Expected 10 tasks to run, got %d", got)
	}
}
