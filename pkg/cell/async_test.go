package cell

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/loop"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// liveHarness runs the loop on its own goroutine; the document may only be
// touched through do.
type liveHarness struct {
	t    *testing.T
	ctx  context.Context
	doc  *dom.Document
	rt   *Runtime
	errs chan error
}

func newLiveHarness(t *testing.T) *liveHarness {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	h := &liveHarness{t: t, ctx: ctx, doc: dom.NewDocument(), errs: make(chan error, 8)}
	lp := loop.New(loop.WithErrorHandler(func(err error) { h.errs <- err }))
	h.rt = NewRuntime(h.doc, WithLoop(lp))
	go lp.Run(ctx)
	return h
}

func (h *liveHarness) do(fn func()) {
	h.t.Helper()
	if err := h.rt.Loop().Do(h.ctx, fn); err != nil {
		h.t.Fatalf("Do() error: %v", err)
	}
}

func (h *liveHarness) body() string {
	var s string
	h.do(func() { s = h.doc.Body().InnerHTML() })
	return s
}

// waitBody polls until the body markup equals want.
func (h *liveHarness) waitBody(want string) {
	h.t.Helper()
	for {
		got := h.body()
		if got == want {
			return
		}
		select {
		case <-h.ctx.Done():
			h.t.Fatalf("body = %q, want %q", got, want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestAsyncReplacesFallback(t *testing.T) {
	h := newLiveHarness(t)
	release := make(chan struct{})
	greet := Async(func(ctx context.Context, props Data) (any, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return vdom.H("p", nil, "hello ", props.String("who")), nil
	})

	var (
		mu      sync.Mutex
		maxKids int
	)
	stop := h.doc.Observe(func(m dom.Mutation) {
		if m.Target.Tag() != AsyncTag {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if n := m.Target.ChildCount(); n > maxKids {
			maxKids = n
		}
	})
	defer stop()

	h.do(func() {
		h.rt.Mount(h.doc.Body(), vdom.H(greet, vdom.Props{"who": "ada"}, "loading"))
	})
	if got := h.body(); got != "<webcell-async>loading</webcell-async>" {
		t.Fatalf("body before settle = %q", got)
	}

	close(release)
	h.waitBody("<webcell-async><p>hello ada</p></webcell-async>")

	mu.Lock()
	defer mu.Unlock()
	if maxKids != 1 {
		t.Errorf("placeholder held %d children at once, want 1", maxKids)
	}
}

func TestAsyncErrorRendersNothing(t *testing.T) {
	h := newLiveHarness(t)
	failing := Async(func(context.Context, Data) (any, error) {
		return nil, stderrors.New("backend down")
	})

	h.do(func() {
		h.rt.Mount(h.doc.Body(), vdom.H(failing, nil, "loading"))
	})

	select {
	case err := <-h.errs:
		if !errors.Is(err, "W011") {
			t.Errorf("reported error = %v, want W011", err)
		}
	case <-h.ctx.Done():
		t.Fatal("async failure was not reported")
	}
	h.waitBody("<webcell-async></webcell-async>")
}

func TestAsyncCancelledOnDisconnect(t *testing.T) {
	h := newLiveHarness(t)
	cancelled := make(chan struct{})
	slow := Async(func(ctx context.Context, _ Data) (any, error) {
		<-ctx.Done()
		close(cancelled)
		return "late", nil
	})

	var tree *vdom.VNode
	h.do(func() {
		tree = h.rt.Mount(h.doc.Body(), vdom.H(slow, nil, "loading"))
	})
	h.do(func() {
		vdom.Patch(tree, vdom.Fragment())
	})

	select {
	case <-cancelled:
	case <-h.ctx.Done():
		t.Fatal("loader context was not cancelled")
	}
	h.waitBody("")
}
