package shared

import "context"

// TaskHandle tracks one submitted unit of background work. Submitters may
// discard it; keeping the handle in the contract leaves room for cancellation
// and timeouts without changing call sites.
type TaskHandle interface {
	// Done is closed when the task has finished
	Done() <-chan struct{}
	// Wait blocks until the task finishes or the context is cancelled
	Wait(ctx context.Context) error
}

// TaskRunner schedules fire-and-forget background work. Tasks for different
// submissions may run concurrently; scheduling is FIFO-fair but unordered
// relative to other tasks' completion.
type TaskRunner interface {
	// Submit schedules fn for asynchronous execution. The name is used for
	// logging only.
	Submit(name string, fn func(ctx context.Context)) (TaskHandle, error)
}
