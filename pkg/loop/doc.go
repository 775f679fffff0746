// Package loop provides the single-goroutine event loop WebCell runs on.
//
// A Loop owns three queues:
//
//   - tasks, posted with Post from any goroutine
//   - microtasks, queued with QueueMicrotask and drained after every task
//   - animation frames, requested with RequestAnimationFrame and run once
//     the task queue is empty
//
// Every callback runs on the loop goroutine, so code scheduled on a loop
// never needs locks to touch the document. Tests and one-shot tools call
// Flush to drain the queues on the calling goroutine; long-lived programs
// call Run.
//
// A panicking callback does not stop the loop: the panic is converted to
// an error and handed to the loop's error handler, which logs it through
// slog unless an OnError option replaces it.
package loop
