package loop

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/webcell/internal/errors"
)

func TestOrdering(t *testing.T) {
	l := New()
	var got []string
	log := func(s string) func() { return func() { got = append(got, s) } }

	l.RequestAnimationFrame(log("frame"))
	l.Post(func() {
		got = append(got, "task1")
		l.QueueMicrotask(func() {
			got = append(got, "micro1")
			l.QueueMicrotask(log("micro2"))
		})
		l.Post(log("task3"))
	})
	l.Post(log("task2"))
	l.QueueMicrotask(log("micro0"))

	l.Flush()

	want := []string{"micro0", "task1", "micro1", "micro2", "task2", "task3", "frame"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if l.Pending() {
		t.Error("queues not empty after Flush")
	}
}

func TestPanicIsReported(t *testing.T) {
	var reported []error
	l := New(WithErrorHandler(func(err error) { reported = append(reported, err) }))

	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	l.Flush()

	if !ran {
		t.Error("loop stopped after a panicking task")
	}
	if len(reported) != 1 || !errors.Is(reported[0], "W012") {
		t.Fatalf("reported = %v", reported)
	}
}

func TestFuture(t *testing.T) {
	l := New()
	f, settle := l.NewFuture()

	var got []error
	f.Then(func(err error) { got = append(got, err) })
	if f.Settled() {
		t.Fatal("settled too early")
	}

	sentinel := errors.New("W010")
	settle(sentinel)
	settle(nil)
	l.Flush()

	if len(got) != 1 || got[0] != sentinel {
		t.Errorf("Then saw %v", got)
	}
	if f.Err() != sentinel {
		t.Errorf("Err = %v", f.Err())
	}

	// Then after settlement still runs asynchronously.
	late := false
	f.Then(func(error) { late = true })
	if late {
		t.Error("Then ran synchronously")
	}
	l.Flush()
	if !late {
		t.Error("late Then did not run")
	}
}

func TestRunAndDo(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- l.Run(ctx) }()

	var value int
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if err := l.Do(waitCtx, func() { value = 42 }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if value != 42 {
		t.Errorf("value = %d", value)
	}

	f, settle := l.NewFuture()
	l.Post(func() { settle(nil) })
	if err := f.Wait(waitCtx); err != nil {
		t.Errorf("Wait: %v", err)
	}

	cancel()
	select {
	case err := <-stopped:
		if err != context.Canceled {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestFlushDrivesTheCallerGoroutine(t *testing.T) {
	l := New()
	var got []string

	// Work queued by synchronous code, the way DOM callbacks queue
	// updates, settles without a Run goroutine.
	f, settle := l.NewFuture()
	l.QueueMicrotask(func() {
		got = append(got, "update")
		l.Flush()
		settle(nil)
	})
	f.Then(func(error) { got = append(got, "then") })
	l.RequestAnimationFrame(func() { got = append(got, "frame") })

	l.Flush()

	want := []string{"update", "then", "frame"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if !f.Settled() || l.Pending() {
		t.Errorf("settled = %v, pending = %v", f.Settled(), l.Pending())
	}
}
