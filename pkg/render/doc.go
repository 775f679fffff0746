// Package render serializes VNode trees to static HTML.
//
// Output follows the same bucket order the reconciler applies to live
// elements: attributes, reflected properties, dataset, class and style,
// so a tree rendered here and the same tree patched into a document
// produce identical markup.
//
//   - Text and attribute values are escaped
//   - Void elements (input, br, img, ...) have no closing tag
//   - Boolean attributes are written bare when true and omitted when false
//   - Event handlers, keys and hooks are not serialized
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Title: "Preview",
//	    Body:  node,
//	})
//
// StreamingRenderer does the same over an http.ResponseWriter, flushing
// after the head and after each top-level body node.
package render
