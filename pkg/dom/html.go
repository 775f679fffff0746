package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/webcell/internal/errors"
)

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements hold text that is not escaped when serialized.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// IsVoid reports whether tag is a void element.
func IsVoid(tag string) bool {
	return voidElements[tag]
}

// IsRawText reports whether tag holds unescaped text (script, style).
func IsRawText(tag string) bool {
	return rawTextElements[tag]
}

// InnerHTML serializes the children of n. Shadow roots are not included.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.children {
		writeNode(&sb, c, rawTextElements[n.Data])
	}
	return sb.String()
}

// OuterHTML serializes n itself.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	writeNode(&sb, n, false)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node, raw bool) {
	switch n.Type {
	case TextNode:
		if raw {
			sb.WriteString(n.Data)
		} else {
			sb.WriteString(EscapeText(n.Data))
		}
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")
	case ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Data)
		for _, a := range n.attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
			if a.Value != "" {
				sb.WriteString(`="`)
				sb.WriteString(EscapeAttr(a.Value))
				sb.WriteByte('"')
			} else {
				sb.WriteString(`=""`)
			}
		}
		sb.WriteByte('>')
		if voidElements[n.Data] {
			return
		}
		for _, c := range n.children {
			writeNode(sb, c, rawTextElements[n.Data])
		}
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	default:
		for _, c := range n.children {
			writeNode(sb, c, raw)
		}
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// EscapeText escapes character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a double-quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// SetInnerHTML replaces the children of n with the parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	nodes, err := n.doc.ParseHTML(markup, n.Data)
	if err != nil {
		return err
	}
	for _, c := range n.ChildNodes() {
		n.RemoveChild(c)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// ParseHTML parses markup as the content of a context element (default
// "body") and returns detached nodes owned by d. Elements whose names are
// defined in the registry are upgraded as they are created.
func (d *Document) ParseHTML(markup, context string) ([]*Node, error) {
	if context == "" {
		context = "body"
	}
	ctx := &html.Node{Type: html.ElementNode, Data: context, DataAtom: atom.Lookup([]byte(context))}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, errors.New("W020").Wrap(err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if c := d.fromHTML(p); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *Document) fromHTML(p *html.Node) *Node {
	var n *Node
	switch p.Type {
	case html.TextNode:
		return d.CreateTextNode(p.Data)
	case html.CommentNode:
		return d.CreateComment(p.Data)
	case html.ElementNode:
		is := ""
		for _, a := range p.Attr {
			if a.Key == "is" {
				is = a.Val
			}
		}
		n = d.CreateElementIs(p.Data, is)
		for _, a := range p.Attr {
			n.SetAttribute(a.Key, a.Val)
		}
	default:
		return nil
	}
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if child := d.fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
