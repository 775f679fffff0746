package render

import (
	"io"
	"net/http"

	"github.com/vango-dev/webcell/pkg/vdom"
)

// StreamingRenderer writes pages to an http.ResponseWriter, flushing once
// the head is out and again after every top-level body node, so large
// documents reach the client while the rest is still being serialized.
type StreamingRenderer struct {
	*Renderer
	w       io.Writer
	flusher http.Flusher
}

// NewStreamingRenderer returns a streaming renderer for w. Writers that
// are not http.Flusher get the same bytes without intermediate flushes.
func NewStreamingRenderer(w http.ResponseWriter, config RendererConfig) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{
		Renderer: NewRenderer(config),
		w:        w,
		flusher:  flusher,
	}
}

// RenderPage writes the same document as Renderer.RenderPage.
func (s *StreamingRenderer) RenderPage(page PageData) error {
	if err := s.renderPreamble(s.w, page); err != nil {
		return err
	}
	if err := s.renderHead(s.w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, "<body>\n"); err != nil {
		return err
	}
	s.flush()

	for _, part := range topLevel(page.Body) {
		if err := s.RenderToWriter(s.w, part); err != nil {
			return err
		}
		s.flush()
	}

	if err := s.renderClosing(s.w, page); err != nil {
		return err
	}
	s.flush()
	return nil
}

// topLevel splits a fragment body into its children.
func topLevel(body *vdom.VNode) []*vdom.VNode {
	if body == nil {
		return nil
	}
	if body.Kind == vdom.KindFragment {
		return body.Children
	}
	return []*vdom.VNode{body}
}

func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
