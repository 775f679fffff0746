package vdom

import "github.com/vango-dev/webcell/pkg/dom"

// patcher collects insert hooks while a patch runs.
type patcher struct {
	inserted []*VNode
}

// Patch reconciles next against old, which must be bound to a live node by
// a previous Patch, ToVNode or Container. It returns next, now bound.
//
// String-tagged custom elements in next are resolved against old's
// document first. When old and next describe different nodes (kind, tag,
// key or is differ) old's node is replaced. Insert hooks of created elements run
// after the whole patch, children before parents.
func Patch(old, next *VNode) *VNode {
	if old == nil || old.Elm == nil {
		panic("vdom: Patch requires an old tree bound to a live node")
	}
	Resolve(old.Elm.OwnerDocument(), next)
	if next == nil {
		next = &VNode{Kind: KindFragment}
		if old.Kind != KindFragment {
			old.Elm.Remove()
			return next
		}
	}

	p := &patcher{}
	if sameVnode(old, next) {
		p.patchVnode(old, next)
	} else {
		elm := old.Elm
		created := p.createElm(elm.OwnerDocument(), next)
		if parent := elm.Parent(); parent != nil {
			parent.InsertBefore(created, elm)
			parent.RemoveChild(elm)
		}
	}
	p.runInsertHooks()
	return next
}

// PatchElement reconciles next against the live node root, converting the
// current DOM to a VNode first. A fragment next renders into root's
// children; any other next is patched onto root itself.
func PatchElement(root *dom.Node, next *VNode) *VNode {
	if next == nil || next.Kind == KindFragment || root.Type != dom.ElementNode {
		if next != nil && next.Kind != KindFragment {
			next = &VNode{Kind: KindFragment, Children: []*VNode{next}}
		}
		return Patch(Container(root), next)
	}
	return Patch(ToVNode(root), next)
}

func (p *patcher) runInsertHooks() {
	for _, v := range p.inserted {
		v.Data.Hook.Insert(v.Elm)
	}
}

func (p *patcher) createElm(doc *dom.Document, v *VNode) *dom.Node {
	switch v.Kind {
	case KindText:
		v.Elm = doc.CreateTextNode(v.Text)
	case KindComment:
		v.Elm = doc.CreateComment(v.Text)
	case KindFragment:
		v.Elm = doc.CreateDocumentFragment()
		for _, c := range normalize(v.Children) {
			v.Elm.AppendChild(p.createElm(doc, c))
		}
	default:
		elm := doc.CreateElementIs(v.Tag, v.Data.Is)
		v.Elm = elm
		if v.Data.Is != "" {
			elm.SetAttribute("is", v.Data.Is)
		}
		updateModules(emptyVNode, v)
		for _, c := range normalize(v.Children) {
			elm.AppendChild(p.createElm(doc, c))
		}
		if v.Data.Hook.Insert != nil {
			p.inserted = append(p.inserted, v)
		}
	}
	return v.Elm
}

func (p *patcher) patchVnode(old, v *VNode) {
	v.Elm = old.Elm
	switch v.Kind {
	case KindText, KindComment:
		if old.Text != v.Text {
			v.Elm.SetTextContent(v.Text)
		}
	case KindElement:
		updateModules(old, v)
		p.updateChildren(v.Elm, old.Children, v.Children)
	case KindFragment:
		p.updateChildren(v.Elm, old.Children, v.Children)
	}
}

// updateChildren reconciles the children of parent. New children are
// matched to old ones by key, then unkeyed children by position among the
// unkeyed. Unmatched old nodes are removed, unmatched new ones created, and
// every node is placed so the DOM order equals newCh.
func (p *patcher) updateChildren(parent *dom.Node, oldCh, newCh []*VNode) {
	oldCh, newCh = normalize(oldCh), normalize(newCh)

	used := make([]bool, len(oldCh))
	match := make([]*VNode, len(newCh))

	keyed := make(map[string]int)
	for j, o := range oldCh {
		if k := o.Data.Key; k != "" {
			if _, dup := keyed[k]; !dup {
				keyed[k] = j
			}
		}
	}
	for i, n := range newCh {
		k := n.Data.Key
		if k == "" {
			continue
		}
		if j, ok := keyed[k]; ok && !used[j] && sameVnode(oldCh[j], n) {
			match[i] = oldCh[j]
			used[j] = true
		}
	}

	j := 0
	for i, n := range newCh {
		if n.Data.Key != "" {
			continue
		}
		for j < len(oldCh) && (used[j] || oldCh[j].Data.Key != "") {
			j++
		}
		if j == len(oldCh) {
			break
		}
		if sameVnode(oldCh[j], n) {
			match[i] = oldCh[j]
			used[j] = true
		}
		j++
	}

	for j, o := range oldCh {
		if !used[j] && o.Elm != nil && o.Elm.Parent() == parent {
			parent.RemoveChild(o.Elm)
		}
	}

	doc := parent.OwnerDocument()
	cur := parent.FirstChild()
	for i, n := range newCh {
		o := match[i]
		if o == nil {
			parent.InsertBefore(p.createElm(doc, n), cur)
			continue
		}
		p.patchVnode(o, n)
		if n.Elm == cur {
			cur = cur.NextSibling()
		} else {
			parent.InsertBefore(n.Elm, cur)
		}
	}
}

// normalize drops nil children and splices fragments.
func normalize(children []*VNode) []*VNode {
	clean := true
	for _, c := range children {
		if c == nil || c.Kind == KindFragment {
			clean = false
			break
		}
	}
	if clean {
		return children
	}
	return Flatten(children)
}
