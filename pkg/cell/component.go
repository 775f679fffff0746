package cell

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/loop"
	"github.com/vango-dev/webcell/pkg/observable"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// Status is the lifecycle state of a component.
type Status uint8

const (
	// StatusUnattached: constructed, never connected.
	StatusUnattached Status = iota
	// StatusMounted: connected and rendered.
	StatusMounted
	// StatusUnmounted: disconnected. Connecting again mounts afresh.
	StatusUnmounted
)

// String returns the string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusUnattached:
		return "unattached"
	case StatusMounted:
		return "mounted"
	case StatusUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// Component is the live instance behind one custom element.
type Component struct {
	rt   *Runtime
	def  *Definition
	host *dom.Node

	// root is the shadow root, or the host for light DOM components.
	root *dom.Node

	props Data
	state Data

	// tree is the last committed render, bound to root.
	tree    *vdom.VNode
	tracker *observable.Tracker

	// rendered and renderErr carry the result of the tracked render out of
	// the tracker.
	rendered  *vdom.VNode
	renderErr error

	disposers []func()
	status    Status

	// pending is the update queued for the next microtask checkpoint.
	pending *loop.Future

	// reflecting is the attribute being written from a prop, whose change
	// callback must not feed back into the prop.
	reflecting string
}

var (
	_ dom.CustomElement = (*Component)(nil)
	_ dom.PropertyHost  = (*Component)(nil)
	_ vdom.ElementHost  = (*Component)(nil)
	_ vdom.Reflector    = (*Definition)(nil)
)

func newComponent(rt *Runtime, def *Definition, host *dom.Node) *Component {
	c := &Component{
		rt:    rt,
		def:   def,
		host:  host,
		props: def.defaults.clone(),
		state: make(Data),
	}
	if def.target == ShadowDOM {
		c.root = host.AttachShadow()
	} else {
		c.root = host
	}
	c.delegate()
	return c
}

// Host returns the custom element node.
func (c *Component) Host() *dom.Node {
	return c.host
}

// Root returns the node the component renders into.
func (c *Component) Root() *dom.Node {
	return c.root
}

// Definition returns the component's definition.
func (c *Component) Definition() *Definition {
	return c.def
}

// Element implements vdom.ElementHost.
func (c *Component) Element() vdom.Element {
	return c.def
}

// Runtime returns the runtime the component was created by.
func (c *Component) Runtime() *Runtime {
	return c.rt
}

// Status returns the lifecycle state.
func (c *Component) Status() Status {
	return c.status
}

// Props returns the component's props. Render code must treat it as read
// only; use SetProp to change a prop.
func (c *Component) Props() Data {
	return c.props
}

// State returns the component's state. Use SetState to change it.
func (c *Component) State() Data {
	return c.state
}

// AddDisposer registers fn to run once when the component disconnects.
func (c *Component) AddDisposer(fn func()) {
	c.disposers = append(c.disposers, fn)
}

// SetState shallow-merges partial into the state and requests an update.
// The returned future settles once that update has committed, with the
// render error if there was one.
func (c *Component) SetState(partial Data) *loop.Future {
	for k, v := range partial {
		c.state[k] = v
	}
	return c.requestUpdate()
}

// Update requests a render even when nothing changed.
func (c *Component) Update() *loop.Future {
	return c.requestUpdate()
}

// Emit dispatches a bubbling, composed event from the host.
func (c *Component) Emit(typ string, detail any) bool {
	return c.host.DispatchEvent(dom.NewEvent(typ, dom.EventInit{
		Bubbles:    true,
		Composed:   true,
		Cancelable: true,
		Detail:     detail,
	}))
}

// requestUpdate schedules one update as a microtask. Requests made while
// one is pending share it. Components that are not mounted render on
// their next connect instead. Like every Component method it must be
// called on the loop goroutine.
func (c *Component) requestUpdate() *loop.Future {
	if c.status != StatusMounted {
		return c.rt.loop.Resolved(nil)
	}
	if f := c.pending; f != nil {
		c.rt.metrics.RecordUpdateRequest(c.def.tag, true)
		return f
	}
	f, settle := c.rt.loop.NewFuture()
	c.pending = f
	c.rt.metrics.RecordUpdateRequest(c.def.tag, false)

	c.rt.loop.QueueMicrotask(func() {
		c.pending = nil

		// Unmounted in the meantime: nothing to write to.
		if c.status != StatusMounted {
			settle(nil)
			return
		}
		err := c.update()
		if err != nil {
			c.rt.loop.ReportError(err)
		}
		settle(err)
	})
	return f
}

// update renders and commits synchronously.
func (c *Component) update() error {
	_, span := c.rt.tracer.Start(context.Background(), "webcell.update",
		trace.WithAttributes(
			attribute.String("webcell.tag", c.def.tag),
			attribute.String("webcell.target", c.def.target.String()),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.commit()
	c.rt.metrics.RecordRender(c.def.tag, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}

// commit runs the tracked render and patches the result into root. A
// failed render leaves the committed DOM untouched.
func (c *Component) commit() error {
	var (
		next *vdom.VNode
		err  error
	)
	c.tracker.Run()
	next, err = c.rendered, c.renderErr
	c.rendered, c.renderErr = nil, nil
	if err != nil {
		return err
	}

	observable.Untracked(func() {
		err = c.patch(next)
	})
	return err
}

func (c *Component) patch(next *vdom.VNode) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// Part of the tree may have been applied. Drop the listeners
			// either tree bound and start over from the DOM.
			vdom.Release(c.tree)
			vdom.Release(next)
			c.tree = vdom.Container(c.root)
			err = c.renderError(r)
		}
	}()
	c.tree = vdom.Patch(c.tree, next)
	return nil
}

// render is the tracked function of the component's tracker. Signals read
// by the render function subscribe the component.
func (c *Component) render() {
	defer func() {
		if r := recover(); r != nil {
			c.rendered, c.renderErr = nil, c.renderError(r)
		}
	}()
	kids := vdom.Flatten(c.def.render(c))
	if c.def.style != "" {
		kids = append([]*vdom.VNode{vdom.H("style", nil, c.def.style)}, kids...)
	}
	c.rendered = &vdom.VNode{Kind: vdom.KindFragment, Children: kids}
}

func (c *Component) renderError(r any) error {
	if err, ok := r.(error); ok {
		return errors.New("W010").
			WithDetailf("<%s> render panicked: %v", c.def.tag, err).
			Wrap(err)
	}
	return errors.New("W010").
		WithDetailf("<%s> render panicked: %v", c.def.tag, r).
		Wrap(fmt.Errorf("%s", debug.Stack()))
}

// delegate installs the definition's delegated handlers on the render
// root. They live as long as the element.
func (c *Component) delegate() {
	for _, ev := range c.def.events {
		c.root.AddEventListener(ev.Type, func(e *dom.Event) {
			if ev.sel == nil {
				ev.Handler(c, e, e.Target)
				return
			}
			for _, n := range e.ComposedPath() {
				if n == c.root {
					return
				}
				if n.Type == dom.ElementNode && ev.sel.Match(n) {
					ev.Handler(c, e, n)
					return
				}
			}
		})
	}
}

// sameValue compares prop values. Numbers compare by value so an int prop
// equals the float64 parsed from its reflected attribute.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
