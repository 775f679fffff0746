// Package vdom provides WebCell's virtual DOM: the VNode model, the H
// element factory and the reconciler that patches a dom.Document.
//
// # Core Types
//
// VNode describes one desired node. Element nodes carry a Data payload
// split into buckets that the reconciler applies with different DOM
// calls: Attrs (attributes), Props (object properties), Dataset (data-*),
// Class (class toggles), Style (inline declarations) and On (events).
//
// # Element Factory
//
//	vdom.H("a", vdom.Props{
//	    "title":       "Test",
//	    "className":   "btn btn-primary",
//	    "data-toggle": "#test",
//	    "style":       map[string]string{"color": "red"},
//	    "onClick":     func(e *dom.Event) { ... },
//	}, "Test")
//
// H sorts every key into its bucket by name: data-* keys go to Dataset,
// on[A-Z] keys to On, className to Class, and the rest to Props when the
// element has a settable property of that name, otherwise to Attrs.
// Targets may also be functions (invoked immediately) or Element values.
// A tag string naming a custom element is bound to the definition of the
// document it is patched into (see Resolve).
//
// # Reconciliation
//
// Patch compares an old tree with a new one and applies the differences to
// the live nodes bound to the old tree. Children are matched by key first
// and by position second; the resulting DOM order always equals the new
// children order. The old tree is only read: live nodes are bound to the
// new tree through VNode.Elm.
//
// PatchElement reconciles against a live node without a previous tree by
// converting the node to a VNode first (see ToVNode).
package vdom
