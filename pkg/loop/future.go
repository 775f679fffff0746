package loop

import (
	"context"
	"sync"
)

// Future is the eventual outcome of work scheduled on a Loop. Callbacks
// registered with Then run as microtasks on the loop once it settles.
type Future struct {
	loop *Loop

	mu       sync.Mutex
	settled  bool
	err      error
	done     chan struct{}
	handlers []func(error)
}

// NewFuture creates an unsettled future and the function that settles it.
// Only the first call to settle has an effect.
func (l *Loop) NewFuture() (*Future, func(error)) {
	f := &Future{loop: l, done: make(chan struct{})}
	return f, f.settle
}

// Resolved returns a future already settled with err.
func (l *Loop) Resolved(err error) *Future {
	f, settle := l.NewFuture()
	settle(err)
	return f
}

func (f *Future) settle(err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.err = err
	handlers := f.handlers
	f.handlers = nil
	close(f.done)
	f.mu.Unlock()

	for _, h := range handlers {
		f.loop.QueueMicrotask(func() { h(err) })
	}
}

// Then registers fn to run on the loop after the future settles.
func (f *Future) Then(fn func(error)) *Future {
	f.mu.Lock()
	if !f.settled {
		f.handlers = append(f.handlers, fn)
		f.mu.Unlock()
		return f
	}
	err := f.err
	f.mu.Unlock()
	f.loop.QueueMicrotask(func() { fn(err) })
	return f
}

// Done returns a channel closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
func (f *Future) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Err returns the settled error, or nil while pending.
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Wait blocks until the future settles or ctx is done. It must not be
// called from the loop goroutine unless the loop is driven elsewhere.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
