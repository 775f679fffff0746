package dom

import "strings"

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota + 1 // <div>, <my-cell>, etc.
	TextNode                         // Character data
	CommentNode                      // <!-- ... -->
	DocumentNode                     // The document root
	FragmentNode                     // DocumentFragment and ShadowRoot
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentNode:
		return "Document"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is a single node of a Document.
//
// Elements keep their tag name in Data; text and comment nodes keep their
// character data there. A shadow root is a FragmentNode whose Host is set.
type Node struct {
	Type NodeType
	Data string

	doc      *Document
	parent   *Node
	children []*Node

	attrs     []Attr
	props     map[string]any
	listeners map[string][]*listener

	shadow *Node
	host   *Node

	// custom is set once the element has been upgraded by the registry.
	custom CustomElement
	isName string
}

// NodeName returns the tag name for elements and a '#' prefixed name otherwise.
func (n *Node) NodeName() string {
	switch n.Type {
	case ElementNode:
		return n.Data
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	case DocumentNode:
		return "#document"
	default:
		return "#document-fragment"
	}
}

// OwnerDocument returns the document this node belongs to.
func (n *Node) OwnerDocument() *Document {
	return n.doc
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildNodes returns a copy of the node's children.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns the child at index i, or nil when out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.ChildAt(0)
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	return n.ChildAt(len(n.children) - 1)
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildAt(n.parent.indexOf(n) + 1)
}

// PreviousSibling returns the preceding sibling, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Contains reports whether other is n or a descendant of n (light tree only).
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Host returns the host element of a shadow root, or nil.
func (n *Node) Host() *Node {
	return n.host
}

// IsShadowRoot reports whether n is a shadow root.
func (n *Node) IsShadowRoot() bool {
	return n.Type == FragmentNode && n.host != nil
}

// Root returns the topmost ancestor of n without crossing shadow boundaries.
func (n *Node) Root() *Node {
	p := n
	for p.parent != nil {
		p = p.parent
	}
	return p
}

// IsConnected reports whether n is reachable from its document root,
// crossing shadow roots through their hosts.
func (n *Node) IsConnected() bool {
	for p := n; p != nil; {
		root := p.Root()
		if root.Type == DocumentNode {
			return true
		}
		p = root.host
	}
	return false
}

// AppendChild appends child to n, detaching it from its current parent first.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends. Inserting a
// fragment moves its children. Inserting a node that is already attached
// moves it, which disconnects and reconnects custom elements like the
// platform does.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child == nil {
		return nil
	}
	if ref != nil && ref.parent != n {
		panic("dom: reference node is not a child of this node")
	}
	if child.Type == FragmentNode && child.host == nil {
		for _, c := range child.ChildNodes() {
			n.InsertBefore(c, ref)
		}
		return child
	}
	if child.Contains(n) {
		panic("dom: cannot insert a node into its own subtree")
	}
	if child == ref {
		return child
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	if child.doc != n.doc && n.doc != nil {
		n.doc.adopt(child)
	}

	idx := len(n.children)
	if ref != nil {
		idx = n.indexOf(ref)
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	n.doc.record(Mutation{Kind: MutationChildList, Target: n, Added: child, Before: ref})
	if n.IsConnected() {
		connectTree(child)
	}
	return child
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) *Node {
	idx := n.indexOf(child)
	if idx < 0 {
		panic("dom: node is not a child of this node")
	}
	wasConnected := n.IsConnected()
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil

	n.doc.record(Mutation{Kind: MutationChildList, Target: n, Removed: child})
	if wasConnected {
		disconnectTree(child)
	}
	return child
}

// ReplaceChild replaces old with replacement.
func (n *Node) ReplaceChild(replacement, old *Node) *Node {
	next := old.NextSibling()
	n.RemoveChild(old)
	if next == replacement {
		next = replacement.NextSibling()
	}
	n.InsertBefore(replacement, next)
	return old
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.children {
			switch c.Type {
			case TextNode:
				sb.WriteString(c.Data)
			case ElementNode, FragmentNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// SetTextContent replaces character data for text nodes, or all children
// with a single text node for elements.
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		if n.Data == text {
			return
		}
		n.Data = text
		n.doc.record(Mutation{Kind: MutationCharacterData, Target: n, Value: text})
		return
	}
	for _, c := range n.ChildNodes() {
		n.RemoveChild(c)
	}
	if text != "" {
		n.AppendChild(n.doc.CreateTextNode(text))
	}
}

// connectTree fires ConnectedCallback for every upgraded element in the
// subtree, in tree order, shadow trees included.
func connectTree(n *Node) {
	walkComposed(n, func(el *Node) {
		if el.custom != nil && el.IsConnected() {
			el.custom.ConnectedCallback()
		}
	})
}

func disconnectTree(n *Node) {
	walkComposed(n, func(el *Node) {
		if el.custom != nil {
			el.custom.DisconnectedCallback()
		}
	})
}

// walkComposed visits n and its descendants, descending into shadow roots.
// Children and the shadow root are captured before the callback runs:
// nodes a callback renders into an already connected subtree have been
// connected by their own insertion.
func walkComposed(n *Node, fn func(*Node)) {
	children := n.ChildNodes()
	if n.Type == ElementNode {
		shadow := n.shadow
		fn(n)
		if shadow != nil {
			walkComposed(shadow, fn)
		}
	}
	for _, c := range children {
		walkComposed(c, fn)
	}
}
