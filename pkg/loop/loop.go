package loop

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/vango-dev/webcell/internal/errors"
)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report callback failures.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		lp.logger = l
	}
}

// WithErrorHandler replaces the default logging error handler.
func WithErrorHandler(fn func(error)) Option {
	return func(lp *Loop) {
		lp.onError = fn
	}
}

// Loop is a cooperative single-goroutine executor.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	micro  []func()
	frames []func()
	wake   chan struct{}

	logger  *slog.Logger
	onError func(error)

	// draining guards against re-entrant Flush calls from callbacks.
	draining bool
}

// New creates a Loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post schedules fn as a task. It is safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
}

// QueueMicrotask schedules fn to run after the current task and before the
// next one.
func (l *Loop) QueueMicrotask(fn func()) {
	l.mu.Lock()
	l.micro = append(l.micro, fn)
	l.mu.Unlock()
	l.signal()
}

// RequestAnimationFrame schedules fn for the next frame. Frames run when
// no task is pending.
func (l *Loop) RequestAnimationFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending reports whether any callback is queued.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)+len(l.micro)+len(l.frames) > 0
}

// Flush runs queued callbacks on the calling goroutine until every queue is
// empty, including callbacks queued while flushing. A Flush from inside a
// callback is a no-op.
func (l *Loop) Flush() {
	if l.draining {
		return
	}
	l.draining = true
	defer func() { l.draining = false }()

	for l.step() {
	}
}

// step runs one task or one frame batch, followed by all microtasks.
// It returns false when there was nothing to do.
func (l *Loop) step() bool {
	l.drainMicrotasks()

	l.mu.Lock()
	var batch []func()
	switch {
	case len(l.tasks) > 0:
		batch = []func(){l.tasks[0]}
		l.tasks = l.tasks[1:]
	case len(l.frames) > 0:
		batch = l.frames
		l.frames = nil
	}
	l.mu.Unlock()

	if batch == nil {
		return false
	}
	for _, fn := range batch {
		l.call(fn)
		l.drainMicrotasks()
	}
	return true
}

func (l *Loop) drainMicrotasks() {
	for {
		l.mu.Lock()
		if len(l.micro) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.micro[0]
		l.micro = l.micro[1:]
		l.mu.Unlock()
		l.call(fn)
	}
}

// Run processes callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Flush()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Do runs fn as a task and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.ReportError(errors.New("W012").
				WithDetailf("%v", r).
				Wrap(fmt.Errorf("%s", debug.Stack())))
		}
	}()
	fn()
}

// ReportError hands err to the loop's error handler.
func (l *Loop) ReportError(err error) {
	if err == nil {
		return
	}
	if l.onError != nil {
		l.onError(err)
		return
	}
	l.logger.Error("webcell: uncaught error", "error", err)
}
