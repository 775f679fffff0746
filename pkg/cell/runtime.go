package cell

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/loop"
	"github.com/vango-dev/webcell/pkg/metrics"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// Default tracer name for component updates.
const defaultTracerName = "webcell"

// Option configures a Runtime.
type Option func(*Runtime)

// WithLoop sets the event loop updates are scheduled on.
func WithLoop(l *loop.Loop) Option {
	return func(r *Runtime) {
		r.loop = l
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithMetrics records render metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for update spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runtime) {
		r.tracer = t
	}
}

// Runtime binds component definitions to a document and an event loop.
// All component work runs on the loop's goroutine.
type Runtime struct {
	doc     *dom.Document
	loop    *loop.Loop
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewRuntime creates a runtime for doc. Without WithLoop a new loop is
// created; it must be flushed or run by the caller.
func NewRuntime(doc *dom.Document, opts ...Option) *Runtime {
	r := &Runtime{
		doc:    doc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loop == nil {
		r.loop = loop.New(loop.WithLogger(r.logger))
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(defaultTracerName)
	}
	if !doc.Registry().IsDefined(AsyncTag) {
		if err := r.Register(asyncDefinition); err != nil {
			r.logger.Error("webcell: async placeholder not registered", "error", err)
		}
	}
	return r
}

// Document returns the runtime's document.
func (r *Runtime) Document() *dom.Document {
	return r.doc
}

// Loop returns the runtime's event loop.
func (r *Runtime) Loop() *loop.Loop {
	return r.loop
}

// Metrics returns the runtime's collectors, or nil.
func (r *Runtime) Metrics() *metrics.Metrics {
	return r.metrics
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// Register defines every definition's tag on the document. It stops at the
// first failure, which is returned as is (W001 for a tag defined twice).
func (r *Runtime) Register(defs ...*Definition) error {
	for _, def := range defs {
		err := r.doc.Registry().Define(def.tag, r.constructor(def), dom.DefineOptions{
			Extends:            def.extends,
			ObservedAttributes: def.observed,
			Definition:         def,
		})
		if err != nil {
			return err
		}
		r.logger.Debug("webcell: defined", "tag", def.tag, "target", def.target.String())
	}
	return nil
}

func (r *Runtime) constructor(def *Definition) dom.Constructor {
	return func(el *dom.Node) dom.CustomElement {
		return newComponent(r, def, el)
	}
}

// Mount renders content into container, keeping container's own
// attributes. It returns the committed tree, which can be passed to
// vdom.Patch for later renders.
func (r *Runtime) Mount(container *dom.Node, content any) *vdom.VNode {
	return vdom.Patch(vdom.Container(container), vdom.Fragment(content))
}
