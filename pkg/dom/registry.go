package dom

import (
	"regexp"
	"strings"

	"github.com/vango-dev/webcell/internal/errors"
)

// CustomElement is the behavior attached to an upgraded element. The
// registry invokes the callbacks following the Custom Elements lifecycle.
type CustomElement interface {
	ConnectedCallback()
	DisconnectedCallback()
	AttributeChangedCallback(name, old, value string, exists bool)
}

// Adopter is implemented by custom elements that want to know when they
// move to another document.
type Adopter interface {
	AdoptedCallback()
}

// PropertyHost is implemented by custom elements that declare their own
// properties. Property reads and writes on the element are routed to it.
type PropertyHost interface {
	HasProperty(name string) bool
	Property(name string) any
	SetProperty(name string, value any)
}

// Constructor creates the custom element behavior for el.
type Constructor func(el *Node) CustomElement

// DefineOptions configures a custom element definition.
type DefineOptions struct {
	// Extends names the built-in tag a customized built-in element extends.
	Extends string

	// ObservedAttributes lists the attributes that trigger
	// AttributeChangedCallback. It is read once, at definition time.
	ObservedAttributes []string

	// Definition is an opaque description of the element kept for
	// Registry.Definition, such as the component definition behind ctor.
	Definition any
}

type definition struct {
	name     string
	ctor     Constructor
	extends  string
	observed map[string]bool
	meta     any
}

func (d *definition) observes(name string) bool {
	return d.observed[name]
}

// Registry holds the custom element definitions of a document.
type Registry struct {
	doc  *Document
	defs map[string]*definition
}

func newRegistry(d *Document) *Registry {
	return &Registry{doc: d, defs: make(map[string]*definition)}
}

var validName = regexp.MustCompile(`^[a-z][a-z0-9._]*(-[a-z0-9._]*)+$`)

var reservedNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidName reports whether name can be used as a custom element name.
func ValidName(name string) bool {
	return validName.MatchString(name) && !reservedNames[name]
}

// Define registers ctor for name. Elements of that name already in the
// document are upgraded immediately.
func (r *Registry) Define(name string, ctor Constructor, opts DefineOptions) error {
	if !ValidName(name) {
		return errors.New("W002").
			WithDetailf("%q is not a valid custom element name", name).
			WithSuggestion("Use lower-case letters and at least one hyphen, e.g. \"my-cell\"")
	}
	if _, ok := r.defs[name]; ok {
		return errors.New("W001").WithDetailf("tag %q is already defined", name)
	}
	if ctor == nil {
		return errors.New("W006").WithDetailf("no constructor for %q", name)
	}

	def := &definition{
		name:     name,
		ctor:     ctor,
		extends:  strings.ToLower(opts.Extends),
		observed: make(map[string]bool, len(opts.ObservedAttributes)),
		meta:     opts.Definition,
	}
	for _, a := range opts.ObservedAttributes {
		def.observed[strings.ToLower(a)] = true
	}
	r.defs[name] = def

	walkComposed(r.doc.root, func(el *Node) {
		if el.custom == nil && r.matches(def, el) {
			r.construct(def, el)
		}
	})
	return nil
}

// IsDefined reports whether name has been defined.
func (r *Registry) IsDefined(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Definition returns the DefineOptions.Definition name was defined with.
func (r *Registry) Definition(name string) (any, bool) {
	def, ok := r.defs[name]
	if !ok {
		return nil, false
	}
	return def.meta, def.meta != nil
}

// ObservedAttributes returns the observed attribute names of a definition.
func (r *Registry) ObservedAttributes(name string) []string {
	def, ok := r.defs[name]
	if !ok {
		return nil
	}
	return SortedKeys(def.observed)
}

func (r *Registry) lookup(name string) (*definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

func (r *Registry) matches(def *definition, el *Node) bool {
	if def.extends != "" {
		return el.isName == def.name && el.Data == def.extends
	}
	return el.isName == "" && el.Data == def.name
}

// upgrade constructs the custom element behavior for a freshly created
// element when its name is defined.
func (r *Registry) upgrade(n *Node) {
	def, ok := r.defs[n.customName()]
	if !ok || !r.matches(def, n) {
		return
	}
	r.construct(def, n)
}

func (r *Registry) construct(def *definition, el *Node) {
	el.custom = def.ctor(el)
	if el.custom == nil {
		return
	}
	for _, a := range el.Attributes() {
		if def.observes(a.Name) {
			el.custom.AttributeChangedCallback(a.Name, "", a.Value, true)
		}
	}
	if el.IsConnected() {
		el.custom.ConnectedCallback()
	}
}
