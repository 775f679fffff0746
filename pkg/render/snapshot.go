package render

import (
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// Snapshot converts a live node into a VNode tree for serialization.
// Unlike vdom.ToVNode it always includes rendered light content, and it
// emits each shadow root as a declarative <template shadowrootmode="open">
// before the host's children.
//
// Snapshot reads the document and must run on the loop goroutine.
func Snapshot(n *dom.Node) *vdom.VNode {
	switch n.Type {
	case dom.ElementNode:
		v := vdom.Shallow(n)
		if shadow := n.ShadowRoot(); shadow != nil {
			v.Children = append(v.Children, vdom.H("template",
				vdom.Props{"shadowrootmode": "open"},
				snapshotChildren(shadow),
			))
		}
		v.Children = append(v.Children, snapshotChildren(n)...)
		return v
	case dom.DocumentNode, dom.FragmentNode:
		return vdom.Fragment(snapshotChildren(n))
	default:
		return vdom.ToVNode(n)
	}
}

func snapshotChildren(n *dom.Node) []*vdom.VNode {
	var out []*vdom.VNode
	for _, c := range n.ChildNodes() {
		out = append(out, Snapshot(c))
	}
	return out
}
