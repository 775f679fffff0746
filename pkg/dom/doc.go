// Package dom provides the in-process document model WebCell renders into.
//
// The model covers the slice of the browser DOM that the reconciler and the
// component runtime rely on:
//
//   - a node tree (elements, text, comments, fragments, shadow roots)
//   - ordered attributes, reflected properties, dataset, class list and
//     inline style declarations
//   - events with bubbling and composed propagation out of shadow roots
//   - a Custom Element registry that upgrades elements and drives the
//     connected/disconnected/attributeChanged/adopted callbacks
//   - markup parsing and serialization (InnerHTML/SetInnerHTML)
//
// # Mutation Observation
//
// Every write performed on a Document's nodes is reported to the observers
// registered with Document.Observe. Tests use this to count DOM writes and
// the preview server uses it to stream changes to connected browsers.
//
//	doc := dom.NewDocument()
//	stop := doc.Observe(func(m dom.Mutation) {
//	    fmt.Println(m.Kind, m.Target.NodeName(), m.Name)
//	})
//	defer stop()
package dom
