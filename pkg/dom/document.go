package dom

import (
	"strings"
	"sync"
)

// MutationKind classifies a recorded DOM write.
type MutationKind uint8

const (
	MutationChildList MutationKind = iota + 1
	MutationAttributes
	MutationProperty
	MutationCharacterData
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutationChildList:
		return "childList"
	case MutationAttributes:
		return "attributes"
	case MutationProperty:
		return "property"
	case MutationCharacterData:
		return "characterData"
	default:
		return "unknown"
	}
}

// Mutation is one write applied to a document's nodes.
type Mutation struct {
	Kind   MutationKind
	Target *Node

	// Name is the attribute or property name.
	Name     string
	Value    string
	OldValue string

	// Cleared is true when an attribute was removed.
	Cleared bool

	// Added/Removed/Before describe child list changes.
	Added   *Node
	Removed *Node
	Before  *Node
}

// Document owns a node tree, its custom element registry and its observers.
type Document struct {
	root     *Node
	body     *Node
	registry *Registry

	obsMu     sync.Mutex
	observers map[int]func(Mutation)
	nextObs   int
}

// NewDocument creates a document with an <html><body> skeleton.
func NewDocument() *Document {
	d := &Document{}
	d.registry = newRegistry(d)
	d.root = &Node{Type: DocumentNode, doc: d}
	html := d.CreateElement("html")
	d.body = d.CreateElement("body")
	html.AppendChild(d.body)
	d.root.AppendChild(html)
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// Body returns the <body> element.
func (d *Document) Body() *Node {
	return d.body
}

// Registry returns the custom element registry of this document.
func (d *Document) Registry() *Registry {
	return d.registry
}

// CreateElement creates an element, upgrading it when tag names a defined
// custom element.
func (d *Document) CreateElement(tag string) *Node {
	return d.CreateElementIs(tag, "")
}

// CreateElementIs creates a built-in element extended by the custom element
// named is ("customized built-in element").
func (d *Document) CreateElementIs(tag, is string) *Node {
	n := &Node{Type: ElementNode, Data: strings.ToLower(tag), doc: d, isName: is}
	d.registry.upgrade(n)
	return n
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{Type: TextNode, Data: text, doc: d}
}

// CreateComment creates a comment node.
func (d *Document) CreateComment(text string) *Node {
	return &Node{Type: CommentNode, Data: text, doc: d}
}

// CreateDocumentFragment creates an empty fragment.
func (d *Document) CreateDocumentFragment() *Node {
	return &Node{Type: FragmentNode, doc: d}
}

// Observe registers fn for every mutation of this document's nodes and
// returns a function that unregisters it.
func (d *Document) Observe(fn func(Mutation)) func() {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	if d.observers == nil {
		d.observers = make(map[int]func(Mutation))
	}
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() {
		d.obsMu.Lock()
		defer d.obsMu.Unlock()
		delete(d.observers, id)
	}
}

func (d *Document) record(m Mutation) {
	if d == nil {
		return
	}
	d.obsMu.Lock()
	fns := make([]func(Mutation), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.obsMu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

// adopt moves n and its subtree into d, firing AdoptedCallback for upgraded
// elements.
func (d *Document) adopt(n *Node) {
	var walk func(*Node)
	walk = func(p *Node) {
		moved := p.doc != d
		p.doc = d
		if moved && p.custom != nil {
			if a, ok := p.custom.(Adopter); ok {
				a.AdoptedCallback()
			}
		}
		if p.shadow != nil {
			walk(p.shadow)
		}
		for _, c := range p.children {
			walk(c)
		}
	}
	walk(n)
}
