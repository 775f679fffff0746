// Package preview serves a live webcell document over HTTP.
//
// The server exposes:
//
//	GET /         the document as a full HTML page
//	GET /body     the body markup only
//	GET /ws       a websocket stream of JSON mutation records
//	GET /metrics  prometheus metrics
//
// Shadow roots are serialized as declarative shadow DOM templates. The
// page carries a small client script that re-fetches /body whenever a
// mutation record arrives.
package preview
