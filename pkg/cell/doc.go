// Package cell turns render functions into custom elements.
//
// A component is described once with a builder and registered with a
// Runtime, which defines the tag on the runtime's document:
//
//	counter, err := cell.Define("x-counter").
//	    Attribute("count").
//	    Default("count", 0).
//	    On("click", "button", func(c *cell.Component, e *dom.Event, _ *dom.Node) {
//	        c.SetProp("count", c.Props().Int("count")+1)
//	    }).
//	    Render(func(c *cell.Component) any {
//	        return vdom.H("button", nil, c.Props().Int("count"))
//	    }).
//	    Build()
//
//	rt := cell.NewRuntime(doc)
//	err = rt.Register(counter)
//
// Every element of the tag created afterwards, by markup or by vdom.H, is
// backed by a Component. The Component renders when connected, re-renders
// when its props, state or any observable signal read during render
// changes, and releases its subscriptions when disconnected. Updates are
// coalesced: any number of changes before the loop's next microtask
// checkpoint produce a single render.
//
// Plain function components need no registration; see Func and Async.
package cell
