package animation

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by Do once the event loop has exited
var ErrStopped = errors.New("event loop stopped")

// EventLoop runs tasks one at a time on a single goroutine. Tasks must not call
// Do or Post on the loop that is running them.
type EventLoop struct {
	tasks chan func()
	done  chan struct{}
}

// NewEventLoop creates an event loop with room for queue pending tasks
func NewEventLoop(queue int) *EventLoop {
	return &EventLoop{
		tasks: make(chan func(), queue),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled
func (e *EventLoop) Run(ctx context.Context) {
	defer close(e.done)
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-e.tasks:
			task()
		}
	}
}

// Done is closed when Run returns
func (e *EventLoop) Done() <-chan struct{} { return e.done }

// Post queues task. It reports false if the loop has stopped.
func (e *EventLoop) Post(task func()) bool {
	select {
	case e.tasks <- task:
		return true
	case <-e.done:
		return false
	}
}

// Do queues task and waits for it to finish
func (e *EventLoop) Do(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		task()
	}

	select {
	case e.tasks <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrStopped
	}
}

// Schedule posts task to the loop after d
func (e *EventLoop) Schedule(d time.Duration, task func()) func() {
	t := time.AfterFunc(d, func() { e.Post(task) })
	return func() { t.Stop() }
}

var _ Scheduler = (*EventLoop)(nil)
