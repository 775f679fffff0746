package cell

import (
	"strings"

	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// Target selects where a component renders.
type Target uint8

const (
	// ShadowDOM renders into an open shadow root attached at construction.
	ShadowDOM Target = iota

	// LightDOM renders into the host element's children. Children given
	// to vdom.H arrive as the vdom.SlotProp prop instead.
	LightDOM
)

// String returns the string representation of the Target.
func (t Target) String() string {
	switch t {
	case ShadowDOM:
		return "shadow"
	case LightDOM:
		return "light"
	default:
		return "unknown"
	}
}

// RenderFunc produces a component's content. The result may be anything
// vdom.Flatten accepts; nil renders nothing.
type RenderFunc func(c *Component) any

// Handler handles a delegated event. target is the element that matched
// the binding's selector.
type Handler func(c *Component, e *dom.Event, target *dom.Node)

// DelegatedEvent binds a handler to events of Type whose path inside the
// component matches Selector. An empty Selector matches every event that
// reaches the render root.
type DelegatedEvent struct {
	Type     string
	Selector string
	Handler  Handler

	sel *dom.Selector
}

// ReactionSpec runs Effect whenever the value of Expr changes while the
// component is mounted.
type ReactionSpec struct {
	Expr   func(c *Component) any
	Effect func(c *Component, value any)
}

type watch struct {
	reflect bool
	attr    string
}

// Definition is the immutable description of a component. It implements
// vdom.Element so it can be passed to vdom.H directly.
type Definition struct {
	tag      string
	extends  string
	target   Target
	style    string
	observed []string

	// watched maps camelCase property names to their reflection settings.
	watched   map[string]watch
	defaults  Data
	events    []DelegatedEvent
	reactions []ReactionSpec
	onMount   []func(*Component)
	onUnmount []func(*Component)
	render    RenderFunc
}

// TagName implements vdom.Element.
func (d *Definition) TagName() string {
	return d.tag
}

// Extends implements vdom.Element.
func (d *Definition) Extends() string {
	return d.extends
}

// SlotsChildren implements vdom.Element.
func (d *Definition) SlotsChildren() bool {
	return d.target == LightDOM
}

// HasProperty implements vdom.Element. Watched properties and, for light
// DOM components, the slot prop are component properties.
func (d *Definition) HasProperty(name string) bool {
	if _, ok := d.watched[name]; ok {
		return true
	}
	return d.target == LightDOM && name == vdom.SlotProp
}

// Target returns where the component renders.
func (d *Definition) Target() Target {
	return d.target
}

// Style returns the injected style sheet.
func (d *Definition) Style() string {
	return d.style
}

// ObservedAttributes returns the hyphen-case attribute names the component
// reacts to.
func (d *Definition) ObservedAttributes() []string {
	out := make([]string, len(d.observed))
	copy(out, d.observed)
	return out
}

// Reflects reports whether prop is mirrored onto an attribute.
func (d *Definition) Reflects(prop string) bool {
	return d.watched[prop].reflect
}

// ReflectedAttribute implements vdom.Reflector.
func (d *Definition) ReflectedAttribute(prop string, value any) (attr, text string, ok bool) {
	w := d.watched[prop]
	if !w.reflect {
		return "", "", false
	}
	text, present := serializeAttr(value)
	return w.attr, text, present
}

// ReflectedProperty implements vdom.Reflector.
func (d *Definition) ReflectedProperty(attr string) (string, bool) {
	for prop, w := range d.watched {
		if w.reflect && w.attr == attr {
			return prop, true
		}
	}
	return "", false
}

// Builder assembles a Definition.
type Builder struct {
	def   *Definition
	built bool
	err   error
}

// Define starts a definition for tag.
func Define(tag string) *Builder {
	return &Builder{def: &Definition{
		tag:      tag,
		watched:  make(map[string]watch),
		defaults: make(Data),
	}}
}

// modify runs fn unless the definition has already been built.
func (b *Builder) modify(fn func(d *Definition)) *Builder {
	if b.built {
		if b.err == nil {
			b.err = errors.New("W005").WithDetailf("definition of %q changed after Build", b.def.tag)
		}
		return b
	}
	fn(b.def)
	return b
}

// Extends makes the component a customized built-in element of tag.
func (b *Builder) Extends(tag string) *Builder {
	return b.modify(func(d *Definition) { d.extends = strings.ToLower(tag) })
}

// Target sets where the component renders. The default is ShadowDOM.
func (b *Builder) Target(t Target) *Builder {
	return b.modify(func(d *Definition) { d.target = t })
}

// Style injects css as a <style> element ahead of the rendered content.
// It requires the ShadowDOM target.
func (b *Builder) Style(css string) *Builder {
	return b.modify(func(d *Definition) { d.style = css })
}

// Watch declares properties whose writes re-render the component.
func (b *Builder) Watch(props ...string) *Builder {
	return b.modify(func(d *Definition) {
		for _, p := range props {
			if _, ok := d.watched[p]; !ok {
				d.watched[p] = watch{}
			}
		}
	})
}

// Attribute declares watched properties that are synchronized with the
// hyphen-case attribute of the same name in both directions.
func (b *Builder) Attribute(props ...string) *Builder {
	return b.modify(func(d *Definition) {
		for _, p := range props {
			attr := dom.HyphenCase(p)
			d.watched[p] = watch{reflect: true, attr: attr}
			d.observe(attr)
		}
	})
}

// Observe lists attributes whose changes are copied into the camelCase
// prop without reflecting prop writes back.
func (b *Builder) Observe(attrs ...string) *Builder {
	return b.modify(func(d *Definition) {
		for _, a := range attrs {
			d.observe(strings.ToLower(a))
		}
	})
}

func (d *Definition) observe(attr string) {
	for _, a := range d.observed {
		if a == attr {
			return
		}
	}
	d.observed = append(d.observed, attr)
}

// Default sets the initial value of a prop.
func (b *Builder) Default(prop string, value any) *Builder {
	return b.modify(func(d *Definition) { d.defaults[prop] = value })
}

// On binds a delegated event handler, installed once per instance on the
// render root.
func (b *Builder) On(typ, selector string, h Handler) *Builder {
	return b.modify(func(d *Definition) {
		d.events = append(d.events, DelegatedEvent{Type: typ, Selector: selector, Handler: h})
	})
}

// React runs effect whenever expr's value changes while mounted. expr is
// tracked like a render; effect is not.
func (b *Builder) React(expr func(c *Component) any, effect func(c *Component, value any)) *Builder {
	return b.modify(func(d *Definition) {
		d.reactions = append(d.reactions, ReactionSpec{Expr: expr, Effect: effect})
	})
}

// OnMount runs fn on every connect, before the first render.
func (b *Builder) OnMount(fn func(c *Component)) *Builder {
	return b.modify(func(d *Definition) { d.onMount = append(d.onMount, fn) })
}

// OnUnmount runs fn on every disconnect, after the disposers.
func (b *Builder) OnUnmount(fn func(c *Component)) *Builder {
	return b.modify(func(d *Definition) { d.onUnmount = append(d.onUnmount, fn) })
}

// Render sets the render function.
func (b *Builder) Render(fn RenderFunc) *Builder {
	return b.modify(func(d *Definition) { d.render = fn })
}

// Build validates and freezes the definition. Later builder calls make
// Build fail with W005.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := b.def
	if !dom.ValidName(d.tag) {
		return nil, errors.New("W002").
			WithDetailf("%q is not a valid custom element name", d.tag).
			WithSuggestion("Use lower-case letters and at least one hyphen, e.g. \"my-cell\"")
	}
	if d.render == nil {
		return nil, errors.New("W006").WithDetailf("component %q has no render function", d.tag)
	}
	if d.style != "" && d.target != ShadowDOM {
		return nil, errors.New("W004").
			WithDetailf("component %q injects a style but renders into light DOM", d.tag).
			WithSuggestion("Drop Target(cell.LightDOM) or move the style into the page")
	}
	for _, attr := range d.observed {
		prop := dom.CamelCase(attr)
		if _, builtin := dom.LookupProperty(d.extends, prop); builtin {
			return nil, errors.New("W003").
				WithDetailf("attribute %q of %q maps to the built-in property %q", attr, d.tag, prop).
				WithSuggestion("Pick a name no HTML element already uses")
		}
	}
	for i := range d.events {
		ev := &d.events[i]
		if ev.Selector == "" {
			continue
		}
		sel, err := dom.ParseSelector(ev.Selector)
		if err != nil {
			return nil, err
		}
		ev.sel = sel
	}
	b.built = true
	return d, nil
}

// MustBuild is like Build but panics on error. It is meant for package
// level definitions.
func (b *Builder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
