package observable

// Listener is anything that can be notified when a dependency changes.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier, used to deduplicate batch delivery.
	ID() uint64
}

// sourceTracker is implemented by listeners that unsubscribe from their
// sources before re-running.
type sourceTracker interface {
	Listener
	addSource(source *signalBase)
}

// Disposer permanently cancels a subscription. Calling it more than once
// is safe.
type Disposer func()

// Scheduler decides when an invalidated run executes. It receives the run
// and may call it later; a nil Scheduler runs synchronously.
type Scheduler func(run func())
