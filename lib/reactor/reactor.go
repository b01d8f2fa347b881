// Package reactor provides a single-goroutine event loop.
//
// Tasks posted to a Reactor run one after another on the goroutine that
// called Run. State that is only ever touched from within tasks therefore
// needs no locking.
package reactor

import (
	"context"
	"errors"
	"sync"
)

var ErrStopped = errors.New("reactor is stopped")

type Reactor struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
	done    chan struct{}
	once    sync.Once
}

func New() *Reactor {
	return &Reactor{
		queue: make([]func(), 0, 16),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Post queues fn for execution on the reactor goroutine and returns immediately.
// Tasks run in the order they were posted.
// It returns false if the reactor is stopped and fn will never run.
func (r *Reactor) Post(fn func()) bool {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return false
	}
	r.queue = append(r.queue, fn)
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
	return true
}

// Call runs fn on the reactor goroutine and waits for it to return.
// It must not be called from within a task, that would deadlock.
func (r *Reactor) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !r.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-r.done:
		// the task may have been the last one to run
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted tasks until ctx is done or Stop is called.
// Tasks still queued at that point are discarded.
// Run may only be called once.
func (r *Reactor) Run(ctx context.Context) error {
	defer r.Stop()
	for {
		r.mu.Lock()
		tasks := r.queue
		r.queue = make([]func(), 0, cap(tasks))
		stopped := r.stopped
		r.mu.Unlock()
		if stopped {
			return nil
		}
		for _, task := range tasks {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			task()
			if r.isStopped() {
				return nil
			}
		}
		if len(tasks) > 0 {
			continue
		}
		select {
		case <-r.wake:
		case <-r.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop stops the reactor. Queued tasks are discarded and later posts fail.
// It is safe to call Stop more than once and from within a task.
func (r *Reactor) Stop() {
	r.once.Do(func() {
		r.mu.Lock()
		r.stopped = true
		r.queue = nil
		r.mu.Unlock()
		close(r.done)
	})
}

// Done is closed once the reactor is stopped.
func (r *Reactor) Done() <-chan struct{} {
	return r.done
}

func (r *Reactor) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
