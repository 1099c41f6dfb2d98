package task

import (
	"context"
	"fmt"

	"github.com/datasync/backend/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// handle implements shared.TaskHandle
type handle struct {
	done chan struct{}
}

func newHandle() *handle {
	return &handle{done: make(chan struct{})}
}

// Done is closed when the task has finished
func (h *handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or the context is cancelled
func (h *handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pool runs submitted tasks on a bounded goroutine pool. Submission blocks
// when all workers are busy, giving FIFO-ish fairness across jobs.
type Pool struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// NewPool creates a task pool with the given number of workers
func NewPool(size int, logger *zap.Logger) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	p, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &Pool{pool: p, logger: logger}, nil
}

// Submit schedules fn for asynchronous execution and returns a handle the
// caller may wait on or discard. Panics inside fn are recovered and logged so
// a single bad task cannot kill a worker.
func (p *Pool) Submit(name string, fn func(ctx context.Context)) (shared.TaskHandle, error) {
	h := newHandle()
	err := p.pool.Submit(func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked",
					zap.String("task", name),
					zap.Any("panic", r),
				)
			}
		}()
		fn(context.Background())
	})
	if err != nil {
		close(h.done)
		return nil, fmt.Errorf("failed to submit task %s: %w", name, err)
	}
	return h, nil
}

// Release stops the pool and releases its workers
func (p *Pool) Release() {
	p.pool.Release()
}

// Ensure Pool implements TaskRunner
var _ shared.TaskRunner = (*Pool)(nil)
