package observable

import (
	"sync"
	"sync/atomic"
)

// Tracker runs a function while recording the signals it reads. When any
// of them changes, the invalidate hook is called once; further changes are
// ignored until the next Run.
type Tracker struct {
	id uint64

	fn         func()
	invalidate func()

	sources   []*signalBase
	sourcesMu sync.Mutex

	dirty    atomic.Bool
	disposed atomic.Bool
}

// NewTracker creates a tracker for fn. It does not run fn.
func NewTracker(fn func(), invalidate func()) *Tracker {
	return &Tracker{
		id:         nextID(),
		fn:         fn,
		invalidate: invalidate,
	}
}

// ID implements Listener.
func (t *Tracker) ID() uint64 {
	return t.id
}

// MarkDirty implements Listener.
func (t *Tracker) MarkDirty() {
	if t.disposed.Load() {
		return
	}
	if t.dirty.CompareAndSwap(false, true) && t.invalidate != nil {
		t.invalidate()
	}
}

// Dirty reports whether a dependency changed since the last run.
func (t *Tracker) Dirty() bool {
	return t.dirty.Load()
}

// Run executes fn, replacing the recorded dependencies with the ones read
// during this run. A disposed tracker does nothing.
func (t *Tracker) Run() {
	if t.disposed.Load() {
		return
	}
	t.dirty.Store(false)
	t.clearSources()
	WithListener(t, t.fn)
}

// Dispose stops tracking for good. It is idempotent.
func (t *Tracker) Dispose() {
	if t.disposed.Swap(true) {
		return
	}
	t.clearSources()
}

// Disposed reports whether Dispose has been called.
func (t *Tracker) Disposed() bool {
	return t.disposed.Load()
}

func (t *Tracker) addSource(source *signalBase) {
	t.sourcesMu.Lock()
	defer t.sourcesMu.Unlock()

	for _, s := range t.sources {
		if s == source {
			return
		}
	}
	t.sources = append(t.sources, source)
}

func (t *Tracker) clearSources() {
	t.sourcesMu.Lock()
	sources := t.sources
	t.sources = nil
	t.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(t)
	}
}

// Autorun runs fn now and again whenever a signal it read changes. Reruns
// go through schedule, which may defer them; repeated changes before the
// rerun collapse into one.
func Autorun(fn func(), schedule Scheduler) Disposer {
	var t *Tracker
	t = NewTracker(fn, func() {
		if schedule == nil {
			t.Run()
			return
		}
		schedule(t.Run)
	})
	t.Run()
	return t.Dispose
}
