package cell

import (
	"github.com/vango-dev/webcell/pkg/observable"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// ConnectedCallback mounts the component: it subscribes the render to the
// signals it reads, starts the definition's reactions, runs the mount hooks
// and renders synchronously. Content already under the render root, from
// markup or an earlier mount, is hydrated and patched rather than
// recreated.
func (c *Component) ConnectedCallback() {
	if c.status == StatusMounted {
		return
	}
	c.status = StatusMounted
	c.tree = vdom.Container(c.root)

	c.tracker = observable.NewTracker(c.render, func() { c.requestUpdate() })
	c.AddDisposer(c.tracker.Dispose)

	for _, r := range c.def.reactions {
		dispose := observable.Reaction(
			func() any { return r.Expr(c) },
			func(v any) { r.Effect(c, v) },
			c.schedule,
		)
		c.AddDisposer(dispose)
	}
	for _, fn := range c.def.onMount {
		fn(c)
	}
	c.rt.metrics.Mounted(c.def.tag, 1)

	if err := c.update(); err != nil {
		c.rt.loop.ReportError(err)
	}
}

// DisconnectedCallback unmounts the component. Every disposer runs exactly
// once, then the committed tree is dropped along with its listeners. A
// pending update becomes a no-op.
func (c *Component) DisconnectedCallback() {
	if c.status != StatusMounted {
		return
	}
	c.status = StatusUnmounted

	disposers := c.disposers
	c.disposers = nil
	for _, dispose := range disposers {
		dispose()
	}
	for _, fn := range c.def.onUnmount {
		fn(c)
	}

	vdom.Release(c.tree)
	c.tree = nil
	c.tracker = nil
	c.rt.metrics.Mounted(c.def.tag, -1)
}

// AdoptedCallback implements dom.Adopter.
func (c *Component) AdoptedCallback() {
	c.rt.logger.Debug("webcell: adopted", "tag", c.def.tag)
}

// schedule defers reactive reruns to the loop's next microtask checkpoint.
func (c *Component) schedule(run func()) {
	c.rt.loop.QueueMicrotask(func() {
		if c.status == StatusMounted {
			run()
		}
	})
}
