// Package tasks runs fire-and-forget bookkeeping work: usage bumps and
// title fetches that must never delay or alter the response already
// chosen for a request.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bang/internal/logger"
)

// DefaultBudget bounds how long one detached task may run.
const DefaultBudget = 30 * time.Second

// Runner spawns detached tasks with an isolated error boundary.
// Failures are logged and swallowed; there is no cancellation beyond
// the per-task budget.
type Runner struct {
	log    logger.Logger
	budget time.Duration
	wg     sync.WaitGroup
}

// NewRunner creates a runner with the default per-task budget.
func NewRunner(log logger.Logger) *Runner {
	return &Runner{
		log:    log,
		budget: DefaultBudget,
	}
}

// Go schedules fn on its own goroutine, detached from any request.
// Panics are recovered and errors logged; nothing propagates back.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Errorf("detached task %s panicked: %v", name, rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.budget)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.log.Warn("detached task failed",
				logger.String("task", name),
				logger.Error(err))
		}
	}()
}

// Wait blocks until all in-flight tasks finish. Used on shutdown and in
// tests; request handling never calls it.
func (r *Runner) Wait() {
	r.wg.Wait()
}
