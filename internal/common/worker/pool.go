// Package worker provides a bounded goroutine pool for push fan-out.
//
// Naked goroutines are avoided here on purpose: a burst of
// system-notification creations must not spawn unbounded concurrent
// outbound FCM calls.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"

	"salescrm-notifier/internal/common/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	log  logger.Logger

	// serviceCtx is the lifecycle context handed to detached tasks
	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// NewPool creates a bounded pool of the given size with panic recovery.
func NewPool(ctx context.Context, size int, log logger.Logger) (*Pool, error) {
	serviceCtx, serviceCancel := context.WithCancel(ctx)

	panicHandler := func(p interface{}) {
		log.Error("worker panic recovered", map[string]interface{}{"panic": p})
	}

	pool, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		serviceCancel()
		return nil, err
	}

	return &Pool{
		pool:          pool,
		log:           log,
		serviceCtx:    serviceCtx,
		serviceCancel: serviceCancel,
	}, nil
}

// Submit submits a task bound to the caller's context. If the context is
// already cancelled the task is not submitted; if it gets cancelled while
// queued the task is skipped.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return p.pool.Submit(func() {
		select {
		case <-ctx.Done():
			p.log.Debug("task skipped: context cancelled", map[string]interface{}{
				"error": ctx.Err(),
			})
			return
		default:
		}
		task(ctx)
	})
}

// SubmitDetached submits a background task bound to the pool lifecycle
// instead of a request context. Fire-and-forget dispatch uses this so the
// triggering write never blocks on, or gets cancelled with, the delivery.
func (p *Pool) SubmitDetached(task Task) error {
	return p.pool.Submit(func() {
		select {
		case <-p.serviceCtx.Done():
			p.log.Debug("detached task skipped: pool shutting down", nil)
			return
		default:
		}
		task(p.serviceCtx)
	})
}

// Running returns the number of currently running workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Shutdown cancels detached tasks and waits for running workers, bounded.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.serviceCancel()
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		p.log.Warn("worker pool shutdown timeout", map[string]interface{}{"error": err})
	}
}
