package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/webcell/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.)
	Links []LinkTag

	// Scripts contains script tags. Deferred and async scripts go into
	// the head, the others after the body content.
	Scripts []ScriptTag

	// Styles contains inline CSS styles
	Styles []string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
	Charset   string // charset attribute
}

func (m MetaTag) attrs() []Attr {
	return nonEmpty(
		Attr{Name: "charset", Value: m.Charset},
		Attr{Name: "name", Value: m.Name},
		Attr{Name: "property", Value: m.Property},
		Attr{Name: "http-equiv", Value: m.HTTPEquiv},
		Attr{Name: "content", Value: m.Content},
	)
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel   string // rel attribute
	Href  string // href attribute
	Type  string // type attribute
	Media string // media attribute
}

func (l LinkTag) attrs() []Attr {
	return nonEmpty(
		Attr{Name: "rel", Value: l.Rel},
		Attr{Name: "href", Value: l.Href},
		Attr{Name: "type", Value: l.Type},
		Attr{Name: "media", Value: l.Media},
	)
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Type   string // type attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Module bool   // type="module"
	Inline string // inline script content
}

func (s ScriptTag) attrs() []Attr {
	typ := s.Type
	if s.Module {
		typ = "module"
	}
	return nonEmpty(
		Attr{Name: "src", Value: s.Src},
		Attr{Name: "type", Value: typ},
		Attr{Name: "defer", Bare: s.Defer},
		Attr{Name: "async", Bare: s.Async},
	)
}

func nonEmpty(attrs ...Attr) []Attr {
	out := attrs[:0]
	for _, a := range attrs {
		if a.Value != "" || a.Bare {
			out = append(out, a)
		}
	}
	return out
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderPreamble(w, page); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	return r.renderClosing(w, page)
}

func (r *Renderer) renderPreamble(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang))
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"+
		"  <meta charset=\"utf-8\">\n"+
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, meta := range page.Meta {
		if err := writeTag(w, "meta", meta.attrs(), ""); err != nil {
			return err
		}
	}
	for _, link := range page.Links {
		if err := writeTag(w, "link", link.attrs(), ""); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			if err := writeTag(w, "script", script.attrs(), script.Inline); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderClosing writes the blocking scripts and closes the document.
func (r *Renderer) renderClosing(w io.Writer, page PageData) error {
	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			continue
		}
		if err := writeTag(w, "script", script.attrs(), script.Inline); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// writeTag writes one indented head element. Void elements ignore body.
func writeTag(w io.Writer, tag string, attrs []Attr, body string) error {
	if _, err := fmt.Fprintf(w, "  <%s", tag); err != nil {
		return err
	}
	for _, a := range attrs {
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
	if isVoidElement(tag) {
		_, err := io.WriteString(w, ">\n")
		return err
	}
	_, err := fmt.Fprintf(w, ">%s</%s>\n", body, tag)
	return err
}
