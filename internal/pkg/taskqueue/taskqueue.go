// Package taskqueue runs submitted functions one at a time on a single
// goroutine, giving state mutations a strict wall-clock completion order.
package taskqueue

import (
	"context"
	"errors"
)

// ErrStopped is returned by Submit once the queue has shut down.
var ErrStopped = errors.New("taskqueue: stopped")

type task struct {
	fn   func()
	done chan struct{}
}

// Queue is a serial executor. All mutations of shared state go through
// Submit; there is never more than one task running.
type Queue struct {
	tasks chan task
	quit  chan struct{}
}

func New() *Queue {
	return &Queue{
		tasks: make(chan task, 64),
		quit:  make(chan struct{}),
	}
}

// Run executes tasks until ctx is cancelled. Tasks already queued when the
// context ends are still drained so no accepted mutation is lost. quit closes
// only after the drain: a task whose done channel never closed was not
// executed.
func (q *Queue) Run(ctx context.Context) {
	defer close(q.quit)
	for {
		select {
		case t := <-q.tasks:
			t.fn()
			close(t.done)
		case <-ctx.Done():
			for {
				select {
				case t := <-q.tasks:
					t.fn()
					close(t.done)
				default:
					return
				}
			}
		}
	}
}

// Submit enqueues fn and blocks until it has executed. The enqueue never
// blocks against shutdown: once the queue stops accepting work, Submit
// returns ErrStopped instead.
func (q *Queue) Submit(fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}

	select {
	case q.tasks <- t:
	case <-q.quit:
		return ErrStopped
	}

	select {
	case <-t.done:
		return nil
	case <-q.quit:
		select {
		case <-t.done:
			return nil
		default:
			return ErrStopped
		}
	}
}
