package observable

import (
	"reflect"
	"sync"
)

// signalBase is the untyped half of a signal: its identity and the
// listeners that read it, in subscription order.
type signalBase struct {
	id uint64

	mu   sync.RWMutex
	subs []Listener
	ids  map[uint64]struct{}
}

func (s *signalBase) subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[l.ID()]; ok {
		return
	}
	if s.ids == nil {
		s.ids = make(map[uint64]struct{})
	}
	s.ids[l.ID()] = struct{}{}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[l.ID()]; !ok {
		return
	}
	delete(s.ids, l.ID())
	for i := range s.subs {
		if s.subs[i].ID() == l.ID() {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *signalBase) listeners() []Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Listener(nil), s.subs...)
}

// track subscribes the running listener, if any, and lets it record the
// dependency so it can unsubscribe on its next run.
func (s *signalBase) track() {
	l := getCurrentListener()
	if l == nil {
		return
	}
	s.subscribe(l)
	if st, ok := l.(sourceTracker); ok {
		st.addSource(s)
	}
}

// notify marks every listener dirty, or defers that to the end of the
// open batch.
func (s *signalBase) notify() {
	subs := s.listeners()
	if ctx := getTrackingContext(); ctx.batchDepth > 0 {
		ctx.pendingUpdates = append(ctx.pendingUpdates, subs...)
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// Signal is a reactive value container.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal decides whether a write changes the value; nil uses
	// defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	s.base.track()
	return value
}

// Peek returns the value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// RawValue returns the value as an untyped plain value. It never tracks.
func (s *Signal[T]) RawValue() any {
	return s.Peek()
}

// Set stores value and notifies subscribers when it differs.
func (s *Signal[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update replaces the value with fn(current). fn runs under the write
// lock and must not touch the signal.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.base.notify()
	}
}

// WithEquals configures a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// Subscribers returns the number of listeners currently subscribed.
func (s *Signal[T]) Subscribers() int {
	return len(s.base.listeners())
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for scalars, strings and pointers and
// reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if t := reflect.TypeOf(av); t != nil {
		switch t.Kind() {
		case reflect.Array, reflect.Struct, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		default:
			return av == bv
		}
	}
	return reflect.DeepEqual(av, bv)
}
