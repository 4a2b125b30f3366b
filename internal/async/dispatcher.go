package async

import (
	"context"
	"errors"
)

// ErrLoopClosed is returned by Loop.Run after Close
var ErrLoopClosed = errors.New("dispatch loop closed")

// DefaultQueueSize is the queue length used when NewLoop gets a size below 1
const DefaultQueueSize = 64

// Dispatcher delivers functions onto the owning context.
// Implementations must run each function exactly once, on that context.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a plain function to Dispatcher
type DispatcherFunc func(fn func())

// Dispatch calls f(fn)
func (f DispatcherFunc) Dispatch(fn func()) {
	f(fn)
}

// Loop is a Dispatcher backed by a bounded queue. The goroutine that calls
// Run, RunOnce or Drain is the owning context. Dispatch blocks while the
// queue is full.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// NewLoop creates a loop with room for size pending deliveries
func NewLoop(size int) *Loop {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Dispatch queues fn for the owning context. After Close it drops fn.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
	case l.queue <- fn:
	}
}

// Close stops Run and makes later Dispatch calls no-ops.
// It must be called at most once.
func (l *Loop) Close() {
	close(l.done)
}

// Run executes queued functions until ctx is done or the loop is closed
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// RunOnce waits for one queued function and executes it
func (l *Loop) RunOnce(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	case fn := <-l.queue:
		fn()
		return nil
	}
}

// Drain executes every function already queued without waiting and
// returns how many ran
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Pending returns the number of queued deliveries
func (l *Loop) Pending() int {
	return len(l.queue)
}

// Ensure Loop implements Dispatcher interface
var _ Dispatcher = (*Loop)(nil)
