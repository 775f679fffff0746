package vdom

import (
	"strings"

	"github.com/vango-dev/webcell/pkg/dom"
)

// ToVNode converts a live node and its subtree into a VNode tree bound to
// it, so markup that was not produced by a render can be patched. Element
// attributes are sorted into the same buckets H uses: class, style and
// data-* attributes land in Class, Style and Dataset, attributes that
// mirror a property in Props, and the rest in Attrs.
func ToVNode(n *dom.Node) *VNode {
	switch n.Type {
	case dom.TextNode:
		return &VNode{Kind: KindText, Text: n.Data, Elm: n}
	case dom.CommentNode:
		return &VNode{Kind: KindComment, Text: n.Data, Elm: n}
	case dom.ElementNode:
		v := Shallow(n)
		if v.Data.Element == nil || !v.Data.Element.SlotsChildren() {
			v.Children = hydrateChildren(n)
		}
		return v
	default:
		return Container(n)
	}
}

// ElementHost is implemented by the behavior of upgraded custom elements
// that were defined from an Element.
type ElementHost interface {
	Element() Element
}

// Shallow converts a live element without its children.
func Shallow(n *dom.Node) *VNode {
	v := &VNode{Kind: KindElement, Sel: n.Tag(), Tag: n.Tag(), Elm: n}
	v.Data.Is = n.Is()
	if host, ok := n.Custom().(ElementHost); ok {
		v.Data.Element = host.Element()
	}
	for _, a := range n.Attributes() {
		switch {
		case a.Name == "class":
			mergeClasses(&v.Data, a.Value)
		case a.Name == "style":
			mergeStyle(&v.Data, a.Value)
		case a.Name == "is":
			v.Data.Is = a.Value
		case strings.HasPrefix(a.Name, "data-"):
			setDataset(&v.Data, dom.CamelCase(a.Name[len("data-"):]), a.Value)
		default:
			if prop, ok := mirroredProperty(n, v.Data.Element, a.Name); ok {
				if v.Data.Props == nil {
					v.Data.Props = make(map[string]any)
				}
				v.Data.Props[prop] = n.Property(prop)
				continue
			}
			if v.Data.Attrs == nil {
				v.Data.Attrs = make(map[string]any)
			}
			v.Data.Attrs[a.Name] = a.Value
		}
	}
	return v
}

// mirroredProperty returns the property attr reflects, checking the
// custom element definition before the built-in table.
func mirroredProperty(n *dom.Node, el Element, attr string) (string, bool) {
	if r, ok := el.(Reflector); ok {
		if prop, ok := r.ReflectedProperty(attr); ok {
			return prop, true
		}
	}
	return dom.PropertyForAttribute(n.Tag(), attr)
}

// Container returns a fragment root bound to n whose children are n's
// current children. Patching it renders into n without touching n itself;
// an empty n yields an empty baseline.
func Container(n *dom.Node) *VNode {
	return &VNode{Kind: KindFragment, Elm: n, Children: hydrateChildren(n)}
}

func hydrateChildren(n *dom.Node) []*VNode {
	var out []*VNode
	for _, c := range n.ChildNodes() {
		out = append(out, ToVNode(c))
	}
	return out
}
