package cell

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/loop"
	"github.com/vango-dev/webcell/pkg/metrics"
)

// harness is a document, a runtime and a loop whose errors are collected.
type harness struct {
	t    *testing.T
	doc  *dom.Document
	rt   *Runtime
	loop *loop.Loop
	errs []error
}

func newHarness(t *testing.T, defs ...*Definition) *harness {
	t.Helper()
	h := &harness{t: t, doc: dom.NewDocument()}
	h.loop = loop.New(loop.WithErrorHandler(func(err error) {
		h.errs = append(h.errs, err)
	}))
	h.rt = NewRuntime(h.doc,
		WithLoop(h.loop),
		WithMetrics(metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))),
	)
	if err := h.rt.Register(defs...); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	return h
}

// mount creates an element of tag and appends it to the body.
func (h *harness) mount(tag string) (*dom.Node, *Component) {
	h.t.Helper()
	el := h.doc.CreateElement(tag)
	h.doc.Body().AppendChild(el)
	c, ok := el.Custom().(*Component)
	if !ok {
		h.t.Fatalf("<%s> was not upgraded", tag)
	}
	return el, c
}

func (h *harness) mutations(fn func()) int {
	n := 0
	stop := h.doc.Observe(func(dom.Mutation) { n++ })
	defer stop()
	fn()
	return n
}

func mustBuild(t *testing.T, b *Builder) *Definition {
	t.Helper()
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return d
}
