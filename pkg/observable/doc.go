// Package observable is the reactive state library WebCell renders from.
//
// A Signal holds a value. Reading it with Get inside a tracked run
// subscribes that run; writing it with Set notifies every subscriber.
//
//	count := observable.NewSignal(0)
//	stop := observable.Autorun(func() {
//	    fmt.Println("count is", count.Get())
//	}, nil)
//	count.Set(1) // prints "count is 1"
//	stop()
//
// Tracker is the building block: it runs a function while recording which
// signals were read, and calls an invalidation hook once when any of them
// changes. The hook decides when to run again, which is how WebCell defers
// re-renders to a microtask. Every run re-tracks from scratch.
//
// Reaction runs a side effect only when a derived value changes. Raw
// recovers plain values from signals so that data handed to user code
// never carries reactive wrappers.
//
// Tracking state is kept per goroutine. Batch defers notifications until
// the outermost batch returns and delivers each subscriber at most once.
package observable
