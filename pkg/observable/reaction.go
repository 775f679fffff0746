package observable

// Reaction tracks expr and calls effect with its new value whenever the
// value changes. effect does not run for the initial value and its own
// reads are not tracked.
func Reaction[T any](expr func() T, effect func(value T), schedule Scheduler) Disposer {
	var (
		t       *Tracker
		current T
		started bool
	)
	run := func() {
		t.Run()
	}
	t = NewTracker(func() {
		next := expr()
		if started && defaultEquals(current, next) {
			return
		}
		first := !started
		current, started = next, true
		if !first {
			Untracked(func() { effect(next) })
		}
	}, func() {
		if schedule == nil {
			run()
			return
		}
		schedule(run)
	})
	t.Run()
	return t.Dispose
}
