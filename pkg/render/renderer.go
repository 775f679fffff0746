package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it changes whitespace.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer serializes VNode trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0, false)
}

// renderNode dispatches rendering based on node kind. raw is set inside
// script and style elements.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int, raw bool) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		text := node.Text
		if !raw {
			text = escapeHTML(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case vdom.KindComment:
		_, err := fmt.Fprintf(w, "<!--%s-->", node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth, raw); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	for _, a := range Attributes(node) {
		var err error
		if a.Bare {
			_, err = fmt.Fprintf(w, " %s", a.Name)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value))
		}
		if err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	children := node.Children
	if text, ok := node.Data.Props["textContent"]; ok {
		children = []*vdom.VNode{vdom.Text(vdom.Stringify(text))}
	}

	raw := isRawTextElement(tag)
	block := r.config.Pretty && len(children) > 0 && !isInlineElement(tag) && !raw && !textOnly(children)
	if block {
		w.Write([]byte{'\n'})
	}
	for _, child := range children {
		// Elements indent themselves; loose text and comments between
		// them get their own line.
		loose := block && child.Kind != vdom.KindElement
		if loose {
			r.writeIndent(w, depth+1)
		}
		if err := r.renderNode(w, child, depth+1, raw); err != nil {
			return err
		}
		if loose {
			w.Write([]byte{'\n'})
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// textOnly reports whether children are all text, which pretty output
// keeps on the element's line.
func textOnly(children []*vdom.VNode) bool {
	for _, c := range children {
		if c.Kind != vdom.KindText {
			return false
		}
	}
	return true
}

// Attr is one serialized attribute. Bare attributes have no value.
type Attr struct {
	Name  string
	Value string
	Bare  bool
}

// Attributes returns the attributes an element VNode serializes to, in
// output order: is, attrs, reflected props, dataset, class, style. Within
// a bucket names are sorted. Props of a custom element definition are
// written when the definition mirrors them onto an attribute.
func Attributes(node *vdom.VNode) []Attr {
	d := node.Data
	var out []Attr

	if d.Is != "" {
		out = append(out, Attr{Name: "is", Value: d.Is})
	}

	for _, k := range dom.SortedKeys(d.Attrs) {
		switch v := d.Attrs[k].(type) {
		case nil:
		case bool:
			if v {
				out = append(out, Attr{Name: k, Bare: true})
			}
		default:
			s := vdom.Stringify(v)
			out = append(out, Attr{Name: k, Value: s, Bare: s == "" && isBooleanAttr(k)})
		}
	}

	reflector, _ := d.Element.(vdom.Reflector)
	for _, k := range dom.SortedKeys(d.Props) {
		v := d.Props[k]
		if reflector != nil {
			if attr, text, ok := reflector.ReflectedAttribute(k, v); ok {
				out = append(out, Attr{Name: attr, Value: text, Bare: text == "" && isBooleanAttr(attr)})
				continue
			}
			if node.Data.Element.HasProperty(k) {
				continue
			}
		}
		spec, ok := dom.LookupProperty(node.Tag, k)
		if !ok || spec.Attr == "" {
			continue
		}
		if spec.Boolean {
			if b, _ := v.(bool); b {
				out = append(out, Attr{Name: spec.Attr, Bare: true})
			}
			continue
		}
		if v != nil {
			out = append(out, Attr{Name: spec.Attr, Value: vdom.Stringify(v)})
		}
	}

	for _, k := range dom.SortedKeys(d.Dataset) {
		out = append(out, Attr{Name: "data-" + dom.HyphenCase(k), Value: d.Dataset[k]})
	}

	var classes []string
	for _, k := range dom.SortedKeys(d.Class) {
		if d.Class[k] {
			classes = append(classes, k)
		}
	}
	if len(classes) > 0 {
		out = append(out, Attr{Name: "class", Value: strings.Join(classes, " ")})
	}

	if len(d.Style) > 0 {
		decls := make([]string, 0, len(d.Style))
		for _, k := range dom.SortedKeys(d.Style) {
			decls = append(decls, k+": "+d.Style[k]+";")
		}
		out = append(out, Attr{Name: "style", Value: strings.Join(decls, " ")})
	}
	return out
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
