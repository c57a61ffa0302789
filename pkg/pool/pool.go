package pool

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config defines worker pool limits.
type Config struct {
	Workers     int           `json:"workers"`
	QueueSize   int           `json:"queue_size"`
	TaskTimeout time.Duration `json:"task_timeout"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Workers:     4,
		QueueSize:   64,
		TaskTimeout: 30 * time.Second,
	}
}

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// WorkerPool executes background tasks with bounded concurrency. Submit never
// blocks the caller: when the queue is full the task is dropped and counted,
// which is the right trade for fire-and-forget email delivery.
type WorkerPool struct {
	tasks  chan Task
	wg     sync.WaitGroup
	config Config
	logger *zap.Logger

	mu        sync.Mutex
	closed    bool
	submitted int
	completed int
	failed    int
	dropped   int
}

// NewWorkerPool creates a pool and starts its workers.
func NewWorkerPool(config Config, logger *zap.Logger) *WorkerPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = DefaultConfig().TaskTimeout
	}

	p := &WorkerPool{
		tasks:  make(chan Task, config.QueueSize),
		config: config,
		logger: logger,
	}

	p.wg.Add(config.Workers)
	for i := 0; i < config.Workers; i++ {
		go p.worker()
	}

	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		p.run(task)
	}
}

func (p *WorkerPool) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.TaskTimeout)
	defer cancel()

	start := time.Now()
	err := task.Run(ctx)
	duration := time.Since(start)

	p.mu.Lock()
	if err != nil {
		p.failed++
	} else {
		p.completed++
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Error("Background task failed",
			zap.String("task", task.Name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("Background task completed",
		zap.String("task", task.Name),
		zap.Duration("duration", duration),
	)
}

// Submit enqueues a task for execution. It reports false when the pool is
// closed or the queue is full; the task is then dropped.
func (p *WorkerPool) Submit(task Task) bool {
	if task.Run == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}

	select {
	case p.tasks <- task:
		p.submitted++
		return true
	default:
		p.dropped++
		p.logger.Warn("Task queue full, dropping task",
			zap.String("task", task.Name),
			zap.Int("queue_size", p.config.QueueSize),
		)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Worker pool drained")
}

// Stats returns pool statistics
func (p *WorkerPool) Stats() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]interface{}{
		"workers":   p.config.Workers,
		"queued":    len(p.tasks),
		"submitted": p.submitted,
		"completed": p.completed,
		"failed":    p.failed,
		"dropped":   p.dropped,
	}
}
