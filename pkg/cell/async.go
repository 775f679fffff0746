package cell

import (
	"context"

	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// AsyncTag is the placeholder element async components render into.
const AsyncTag = "webcell-async"

// AsyncFunc produces content off the loop goroutine. ctx is cancelled when
// the placeholder disconnects. It must not touch the document.
type AsyncFunc func(ctx context.Context, props Data) (any, error)

// Async adapts fn into a function component. Each use renders an
// AsyncTag placeholder showing the call's children until fn returns; the
// children are then replaced by fn's result in a single patch. A failing
// fn renders nothing and reports a W011 error to the loop.
func Async(fn AsyncFunc) vdom.FuncComponent {
	return func(props vdom.Props) *vdom.VNode {
		args := make(Data, len(props))
		for k, v := range props {
			if k != vdom.SlotProp {
				args[k] = v
			}
		}
		return vdom.H(asyncDefinition, vdom.Props{
			"loader":   fn,
			"args":     args,
			"fallback": props[vdom.SlotProp],
		})
	}
}

var asyncDefinition = Define(AsyncTag).
	Target(LightDOM).
	Watch("loader", "args", "fallback").
	OnMount(startAsync).
	Render(renderAsync).
	MustBuild()

func renderAsync(c *Component) any {
	if c.state.Bool("settled") {
		return c.state["content"]
	}
	return c.props["fallback"]
}

// startAsync runs the loader in its own goroutine and posts the outcome
// back to the loop. Results arriving after a disconnect are dropped; the
// next connect starts over.
func startAsync(c *Component) {
	fn, _ := c.props["loader"].(AsyncFunc)
	if fn == nil || c.state.Bool("settled") {
		return
	}
	args, _ := c.props["args"].(Data)

	ctx, cancel := context.WithCancel(context.Background())
	c.AddDisposer(cancel)

	go func() {
		content, err := fn(ctx, args)
		c.rt.loop.Post(func() {
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				c.rt.loop.ReportError(errors.New("W011").
					WithDetailf("async content of <%s> failed: %v", c.host.Tag(), err).
					Wrap(err))
				content = nil
			}
			c.SetState(Data{"settled": true, "content": content})
		})
	}()
}
