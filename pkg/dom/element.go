package dom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Tag returns the lower-case tag name of an element.
func (n *Node) Tag() string {
	if n.Type != ElementNode {
		return ""
	}
	return n.Data
}

// Is returns the custom element name an extended built-in was created with.
func (n *Node) Is() string {
	return n.isName
}

// Custom returns the upgraded custom element instance, or nil.
func (n *Node) Custom() CustomElement {
	return n.custom
}

// Attributes returns a copy of the element's attributes in insertion order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attribute returns the attribute value, or "" when absent.
func (n *Node) Attribute(name string) string {
	v, _ := n.GetAttribute(name)
	return v
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute, appending it when new.
// Observed attributes of upgraded custom elements trigger
// AttributeChangedCallback.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	var (
		old    string
		hadOld bool
	)
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			old, hadOld = n.attrs[i].Value, true
			n.attrs[i].Value = value
			break
		}
	}
	if !hadOld {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}
	n.doc.record(Mutation{Kind: MutationAttributes, Target: n, Name: name, Value: value, OldValue: old})
	n.attributeChanged(name, old, value, true)
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.record(Mutation{Kind: MutationAttributes, Target: n, Name: name, OldValue: a.Value, Cleared: true})
			n.attributeChanged(name, a.Value, "", false)
			return
		}
	}
}

// ToggleAttribute adds an empty attribute when on and removes it otherwise.
func (n *Node) ToggleAttribute(name string, on bool) {
	switch {
	case on && !n.HasAttribute(name):
		n.SetAttribute(name, "")
	case !on && n.HasAttribute(name):
		n.RemoveAttribute(name)
	}
}

func (n *Node) attributeChanged(name, old, value string, exists bool) {
	if n.custom == nil || n.doc == nil {
		return
	}
	def, ok := n.doc.registry.lookup(n.customName())
	if !ok || !def.observes(name) {
		return
	}
	n.custom.AttributeChangedCallback(name, old, value, exists)
}

func (n *Node) customName() string {
	if n.isName != "" {
		return n.isName
	}
	return n.Data
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

// HasProperty reports whether name is a settable property of this element:
// either declared by the upgraded custom element or present in the built-in
// property table for its tag.
func (n *Node) HasProperty(name string) bool {
	if host, ok := n.custom.(PropertyHost); ok && host.HasProperty(name) {
		return true
	}
	_, ok := LookupProperty(n.Data, name)
	return ok
}

// Property returns the current value of a DOM property.
func (n *Node) Property(name string) any {
	if host, ok := n.custom.(PropertyHost); ok && host.HasProperty(name) {
		return host.Property(name)
	}
	if name == "textContent" {
		return n.TextContent()
	}
	if v, ok := n.props[name]; ok {
		return v
	}
	spec, ok := LookupProperty(n.Data, name)
	if !ok || spec.Attr == "" {
		return nil
	}
	if spec.Boolean {
		return n.HasAttribute(spec.Attr)
	}
	return n.Attribute(spec.Attr)
}

// SetProperty assigns a DOM property. Reflecting properties write through to
// their attribute; others are kept on the element only.
func (n *Node) SetProperty(name string, value any) {
	if host, ok := n.custom.(PropertyHost); ok && host.HasProperty(name) {
		host.SetProperty(name, value)
		return
	}
	if name == "textContent" {
		n.SetTextContent(stringify(value))
		return
	}
	spec, known := LookupProperty(n.Data, name)
	if known && spec.Reflect {
		if spec.Boolean {
			n.ToggleAttribute(spec.Attr, truthy(value))
		} else if value == nil {
			n.RemoveAttribute(spec.Attr)
		} else {
			n.SetAttribute(spec.Attr, stringify(value))
		}
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	n.doc.record(Mutation{Kind: MutationProperty, Target: n, Name: name, Value: stringify(value)})
}

// DeleteProperty removes an expando or non-reflecting property.
func (n *Node) DeleteProperty(name string) {
	if _, ok := n.props[name]; ok {
		delete(n.props, name)
		n.doc.record(Mutation{Kind: MutationProperty, Target: n, Name: name})
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func stringify(v any) string {
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
	default:
		return fmt.Sprint(v)
	}
}

// ---------------------------------------------------------------------------
// Dataset
// ---------------------------------------------------------------------------

// Dataset returns the data-* attributes keyed by camelCase name.
func (n *Node) Dataset() map[string]string {
	out := make(map[string]string)
	for _, a := range n.attrs {
		if strings.HasPrefix(a.Name, "data-") {
			out[CamelCase(a.Name[len("data-"):])] = a.Value
		}
	}
	return out
}

// SetData sets data-<hyphenated key>.
func (n *Node) SetData(key, value string) {
	n.SetAttribute("data-"+HyphenCase(key), value)
}

// RemoveData removes data-<hyphenated key>.
func (n *Node) RemoveData(key string) {
	n.RemoveAttribute("data-" + HyphenCase(key))
}

// ---------------------------------------------------------------------------
// Class list
// ---------------------------------------------------------------------------

// ClassList returns the element's classes in attribute order.
func (n *Node) ClassList() []string {
	return strings.Fields(n.Attribute("class"))
}

// HasClass reports whether the element carries the class.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.ClassList() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds a class when missing.
func (n *Node) AddClass(name string) {
	if n.HasClass(name) {
		return
	}
	n.SetAttribute("class", strings.Join(append(n.ClassList(), name), " "))
}

// RemoveClass removes a class when present. An emptied list removes the
// attribute.
func (n *Node) RemoveClass(name string) {
	if !n.HasClass(name) {
		return
	}
	kept := n.ClassList()[:0]
	for _, c := range n.ClassList() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		n.RemoveAttribute("class")
		return
	}
	n.SetAttribute("class", strings.Join(kept, " "))
}

// ---------------------------------------------------------------------------
// Inline style
// ---------------------------------------------------------------------------

// Style returns the inline style declarations in attribute order.
func (n *Node) Style() []Attr {
	return parseStyle(n.Attribute("style"))
}

// StyleValue returns a single inline declaration.
func (n *Node) StyleValue(name string) string {
	for _, d := range n.Style() {
		if d.Name == name {
			return d.Value
		}
	}
	return ""
}

// SetStyle sets one inline declaration, keeping the others in place.
func (n *Node) SetStyle(name, value string) {
	decls := n.Style()
	found := false
	for i := range decls {
		if decls[i].Name == name {
			if decls[i].Value == value {
				return
			}
			decls[i].Value = value
			found = true
		}
	}
	if !found {
		decls = append(decls, Attr{Name: name, Value: value})
	}
	n.SetAttribute("style", formatStyle(decls))
}

// RemoveStyle removes one inline declaration.
func (n *Node) RemoveStyle(name string) {
	decls := n.Style()
	kept := decls[:0]
	for _, d := range decls {
		if d.Name != name {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(decls) {
		return
	}
	if len(kept) == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", formatStyle(kept))
}

func parseStyle(s string) []Attr {
	var out []Attr
	for _, part := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, Attr{Name: name, Value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []Attr) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Name + ": " + d.Value + ";"
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Shadow DOM
// ---------------------------------------------------------------------------

// AttachShadow creates an open shadow root for the element. Calling it twice
// returns the existing root.
func (n *Node) AttachShadow() *Node {
	if n.shadow != nil {
		return n.shadow
	}
	n.shadow = &Node{Type: FragmentNode, doc: n.doc, host: n}
	return n.shadow
}

// ShadowRoot returns the element's shadow root, or nil.
func (n *Node) ShadowRoot() *Node {
	return n.shadow
}

// ---------------------------------------------------------------------------
// Name helpers
// ---------------------------------------------------------------------------

// CamelCase converts hyphen-case to camelCase ("data-toggle" -> "dataToggle").
func CamelCase(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// HyphenCase converts camelCase to hyphen-case ("dataToggle" -> "data-toggle").
func HyphenCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
