package vdom

import "github.com/vango-dev/webcell/pkg/dom"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <my-cell>, etc.
	KindText                  // Plain text node
	KindComment               // <!-- ... -->
	KindFragment              // Grouping without wrapper, or a container root
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node. A VNode is not modified once a render has
// produced it, except for Elm, which the reconciler sets on the new tree.
type VNode struct {
	Kind VKind

	// Sel is the selector the node was created from ("a#id.cls"); Tag is
	// its tag name.
	Sel string
	Tag string

	Data     Data
	Children []*VNode

	// Text holds the character data of text and comment nodes.
	Text string

	// Elm is the live node this VNode is bound to after a patch.
	Elm *dom.Node

	// events is the element's listener proxy, handed from the old tree to
	// the new one.
	events *eventProxy

	// raw holds the props of a string-tagged element that may name a
	// custom element, until Resolve looks the tag up in a document.
	raw        Props
	unresolved bool
}

// Props is the raw key/value payload passed to H.
type Props map[string]any

// Data holds the bucketed payload of an element VNode.
type Data struct {
	Attrs   map[string]any
	Props   map[string]any
	Dataset map[string]string
	Class   map[string]bool
	Style   map[string]string
	On      map[string]dom.EventListener

	// Key identifies the node among its siblings.
	Key string

	// Is names the custom element a built-in element is extended by.
	Is string

	// Element is the custom element definition the node was built for, or
	// nil for plain elements and unresolved tags.
	Element Element

	Hook Hook
}

// Hook holds lifecycle callbacks for a VNode.
type Hook struct {
	// Insert runs once the created node has been attached.
	Insert func(elm *dom.Node)
}

// Key returns the node's reconciliation key.
func (v *VNode) Key() string {
	if v == nil {
		return ""
	}
	return v.Data.Key
}

// sameVnode reports whether b can be patched into a's live node.
func sameVnode(a, b *VNode) bool {
	return a.Kind == b.Kind &&
		a.Tag == b.Tag &&
		a.Data.Key == b.Data.Key &&
		a.Data.Is == b.Data.Is
}
