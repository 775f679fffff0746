package observable

// Batch groups signal writes. Subscribers are notified once, after the
// outermost batch returns, even when several of their sources changed.
//
//	observable.Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			processPendingUpdates(ctx)
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies pending listeners.
func processPendingUpdates(ctx *trackingContext) {
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		id := l.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		l.MarkDirty()
	}
}
