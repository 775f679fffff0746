package vdom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/webcell/pkg/dom"
)

// SlotProp is the prop function components and light DOM custom elements
// receive their children in.
const SlotProp = "defaultSlot"

// Element is a custom element target for H.
type Element interface {
	// TagName returns the registered custom element name.
	TagName() string

	// Extends returns the built-in tag a customized built-in element
	// extends, or "".
	Extends() string

	// SlotsChildren reports whether children are passed as the defaultSlot
	// prop instead of being nested.
	SlotsChildren() bool

	// HasProperty reports whether name is a settable property.
	HasProperty(name string) bool
}

// FuncComponent renders props into a VNode. H calls it immediately.
type FuncComponent func(props Props) *VNode

// Reflector is implemented by Elements whose props are mirrored onto
// attributes.
type Reflector interface {
	// ReflectedAttribute returns the attribute prop is mirrored onto and
	// the text value is written as. ok is false when prop is not mirrored
	// or value removes the attribute.
	ReflectedAttribute(prop string, value any) (attr, text string, ok bool)

	// ReflectedProperty returns the prop mirrored onto attr.
	ReflectedProperty(attr string) (prop string, ok bool)
}

// H builds a VNode. target is a tag selector ("div#main.card"), an
// Element, or a function component. Children are flattened to any depth;
// nil and bool children are dropped and strings and numbers become text
// nodes.
//
// Custom element names are looked up per document: a string tag that may
// name one is resolved by Patch against the document it renders into, or
// earlier by Resolve. Passing the Element itself binds it right away.
//
// Function components are invoked right away with props plus their
// flattened children under SlotProp, and their result is returned.
func H(target any, props Props, children ...any) *VNode {
	switch t := target.(type) {
	case string:
		v := elementNode(t, nil, props, children)
		if v.Data.Is != "" || strings.Contains(v.Tag, "-") {
			v.raw, v.unresolved = props, true
		}
		return v
	case Element:
		return elementNode(t.TagName(), t, props, children)
	case FuncComponent:
		return t(slotted(props, children))
	case func(Props) *VNode:
		return t(slotted(props, children))
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("vdom: unsupported H target %T", target))
	}
}

// CreateElement is an alias for H.
func CreateElement(target any, props Props, children ...any) *VNode {
	return H(target, props, children...)
}

func slotted(props Props, children []any) Props {
	out := make(Props, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out[SlotProp] = Flatten(children...)
	return out
}

func elementNode(sel string, el Element, props Props, children []any) *VNode {
	tag, id, classes := parseSelector(sel)
	v := &VNode{Kind: KindElement, Sel: sel, Tag: tag}

	if el != nil {
		v.Data.Element = el
		if el.Extends() != "" {
			v.Tag = el.Extends()
			v.Data.Is = el.TagName()
		}
	}
	if id != "" {
		v.Data.Props = map[string]any{"id": id}
	}
	for _, c := range classes {
		setClass(&v.Data, c, true)
	}
	partition(&v.Data, v.Tag, el, props)

	kids := Flatten(children...)
	if el != nil && el.SlotsChildren() {
		if len(kids) > 0 {
			if v.Data.Props == nil {
				v.Data.Props = make(map[string]any)
			}
			v.Data.Props[SlotProp] = kids
		}
		return v
	}
	v.Children = kids
	return v
}

// parseSelector splits "tag#id.a.b" into its parts.
func parseSelector(sel string) (tag, id string, classes []string) {
	rest := sel
	if i := strings.IndexAny(rest, "#."); i >= 0 {
		tag, rest = rest[:i], rest[i:]
	} else {
		tag, rest = rest, ""
	}
	for rest != "" {
		marker := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, "#.")
		if end < 0 {
			end = len(rest)
		}
		part := rest[:end]
		rest = rest[end:]
		if marker == '#' {
			id = part
		} else if part != "" {
			classes = append(classes, part)
		}
	}
	return strings.ToLower(tag), id, classes
}

// Resolve binds the string-tagged elements of tree to the custom element
// definitions doc holds, re-partitioning their props and slotting their
// children where the definition asks for it. Tags doc does not define stay
// plain elements. Patch resolves the trees it is given.
func Resolve(doc *dom.Document, tree *VNode) {
	if tree == nil || doc == nil {
		return
	}
	if tree.unresolved {
		name := tree.Data.Is
		if name == "" {
			name = tree.Tag
		}
		if el, ok := lookupElement(doc, name); ok {
			bound := elementNode(tree.Sel, el, tree.raw, []any{tree.Children})
			bound.Elm = tree.Elm
			*tree = *bound
		}
		tree.raw, tree.unresolved = nil, false
	}
	for _, c := range tree.Children {
		Resolve(doc, c)
	}
}

func lookupElement(doc *dom.Document, name string) (Element, bool) {
	def, ok := doc.Registry().Definition(name)
	if !ok {
		return nil, false
	}
	el, ok := def.(Element)
	return el, ok
}

// partition routes raw props into their Data buckets.
func partition(d *Data, tag string, el Element, props Props) {
	for k, val := range props {
		switch {
		case k == "key":
			if val != nil {
				d.Key = fmt.Sprint(val)
			}
		case k == "is":
			if s, ok := val.(string); ok {
				d.Is = s
			}
		case k == "hook" || k == "ref":
			if fn := insertHook(val); fn != nil {
				d.Hook.Insert = fn
			}
		case k == "className" || k == "class":
			mergeClasses(d, val)
		case k == "style":
			mergeStyle(d, val)
		case k == "dataset":
			if m, ok := val.(map[string]string); ok {
				for dk, dv := range m {
					setDataset(d, dk, dv)
				}
			}
		case strings.HasPrefix(k, "data-"):
			if val != nil {
				setDataset(d, dom.CamelCase(k[len("data-"):]), Stringify(val))
			}
		case isEventKey(k):
			if fn := listenerOf(val); fn != nil {
				if d.On == nil {
					d.On = make(map[string]dom.EventListener)
				}
				d.On[strings.ToLower(k[2:])] = fn
			}
		case isProperty(tag, el, k):
			if d.Props == nil {
				d.Props = make(map[string]any)
			}
			d.Props[k] = val
		default:
			if val == nil {
				continue
			}
			if d.Attrs == nil {
				d.Attrs = make(map[string]any)
			}
			d.Attrs[k] = val
		}
	}
}

func isProperty(tag string, el Element, name string) bool {
	if el != nil && el.HasProperty(name) {
		return true
	}
	_, ok := dom.LookupProperty(tag, name)
	return ok
}

// isEventKey matches on[A-Z]...
func isEventKey(k string) bool {
	return len(k) > 2 && k[0] == 'o' && k[1] == 'n' && k[2] >= 'A' && k[2] <= 'Z'
}

func listenerOf(v any) dom.EventListener {
	switch fn := v.(type) {
	case dom.EventListener:
		return fn
	case func(*dom.Event):
		return fn
	case func():
		return func(*dom.Event) { fn() }
	default:
		return nil
	}
}

func insertHook(v any) func(*dom.Node) {
	switch fn := v.(type) {
	case func(*dom.Node):
		return fn
	case Hook:
		return fn.Insert
	default:
		return nil
	}
}

func setClass(d *Data, name string, on bool) {
	if d.Class == nil {
		d.Class = make(map[string]bool)
	}
	d.Class[name] = on
}

func mergeClasses(d *Data, v any) {
	switch c := v.(type) {
	case string:
		for _, name := range strings.Fields(c) {
			setClass(d, name, true)
		}
	case []string:
		for _, name := range c {
			setClass(d, name, true)
		}
	case map[string]bool:
		for name, on := range c {
			setClass(d, name, on)
		}
	}
}

func mergeStyle(d *Data, v any) {
	set := func(k, val string) {
		if d.Style == nil {
			d.Style = make(map[string]string)
		}
		d.Style[k] = val
	}
	switch s := v.(type) {
	case map[string]string:
		for k, val := range s {
			set(k, val)
		}
	case map[string]any:
		for k, val := range s {
			if val != nil {
				set(k, Stringify(val))
			}
		}
	case string:
		for _, decl := range strings.Split(s, ";") {
			k, val, ok := strings.Cut(decl, ":")
			if ok && strings.TrimSpace(k) != "" {
				set(strings.TrimSpace(k), strings.TrimSpace(val))
			}
		}
	}
}

func setDataset(d *Data, k, v string) {
	if d.Dataset == nil {
		d.Dataset = make(map[string]string)
	}
	d.Dataset[k] = v
}

// Flatten converts children to VNodes, flattening slices and fragments to
// any depth and dropping nil and bool values.
func Flatten(children ...any) []*VNode {
	var out []*VNode
	var walk func(c any)
	walk = func(c any) {
		switch v := c.(type) {
		case nil, bool:
		case *VNode:
			if v == nil {
				return
			}
			if v.Kind == KindFragment {
				for _, fc := range v.Children {
					walk(fc)
				}
				return
			}
			out = append(out, v)
		case []*VNode:
			for _, e := range v {
				walk(e)
			}
		case []any:
			for _, e := range v {
				walk(e)
			}
		case string:
			out = append(out, Text(v))
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			out = append(out, Text(Stringify(v)))
		case fmt.Stringer:
			out = append(out, Text(v.String()))
		default:
			panic(fmt.Sprintf("vdom: unsupported child %T", c))
		}
	}
	for _, c := range children {
		walk(c)
	}
	return out
}

// Stringify formats an attribute or text value.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
