// Package tasks runs fire-and-forget background work.
package tasks

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Task is a unit of background work.
type Task func(ctx context.Context) error

// Runner starts one goroutine per submitted task. There is no bound on the
// number of tasks in flight.
type Runner struct {
	logger swapi.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	// Metrics
	completedCount atomic.Int64
	failedCount    atomic.Int64
}

// NewRunner creates a runner. Tasks receive a context that is cancelled
// when Shutdown gives up waiting.
func NewRunner(logger swapi.Logger) *Runner {
	if logger == nil {
		logger = swapi.NopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit starts task in the background and returns immediately.
func (r *Runner) Submit(name string, task Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: cannot submit %s", constants.ErrRunnerShutDown, name)
	}

	r.wg.Add(1)

	go r.run(name, task)

	return nil
}

func (r *Runner) run(name string, task Task) {
	defer r.wg.Done()

	start := time.Now()

	err := r.safeRun(task)
	if err != nil {
		r.failedCount.Add(1)
		r.logger.Warn("Task failed", map[string]interface{}{
			"task":     name,
			"duration": time.Since(start).String(),
			"error":    err.Error(),
		})

		return
	}

	r.completedCount.Add(1)
	r.logger.Debug("Task completed", map[string]interface{}{
		"task":     name,
		"duration": time.Since(start).String(),
	})
}

// safeRun turns a panic into an error so one bad task never takes the
// process down.
func (r *Runner) safeRun(task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Panic recovered", map[string]interface{}{
				"error": fmt.Sprintf("%v", rec),
				"stack": string(debug.Stack()),
			})

			err = fmt.Errorf("%w: %v", constants.ErrTaskPanicked, rec)
		}
	}()

	return task(r.ctx)
}

// Wait blocks until every submitted task has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown rejects new tasks and waits for running ones. When ctx expires
// first, running tasks are cancelled and ctx's error is returned.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()

		return nil
	case <-ctx.Done():
		r.cancel()

		return fmt.Errorf("task runner shutdown: %w", ctx.Err())
	}
}

// Completed returns the number of tasks that returned nil.
func (r *Runner) Completed() int64 {
	return r.completedCount.Load()
}

// Failed returns the number of tasks that returned an error or panicked.
func (r *Runner) Failed() int64 {
	return r.failedCount.Load()
}
