// Package errors provides structured, coded errors for WebCell.
//
// Each error carries a code (e.g. "W001") that maps to a registered
// template holding the category, a short message, a longer explanation
// and a documentation link:
//
//	err := errors.New("W001").
//	    WithDetailf("tag %q is already defined", "my-cell").
//	    WithSuggestion("Define each tag once, usually from an init function")
//
//	fmt.Println(err.Format())
//	// ERROR W001: Custom element already defined
//	//
//	//   tag "my-cell" is already defined
//	//
//	//   Hint: Define each tag once, usually from an init function
//
// # Categories
//
//   - config: registration-time mistakes, never recoverable
//   - render: failures raised while rendering a component
//   - platform: misuse of the document model
//   - tool: CLI, preview server and publishing failures
//
// Codes work with the standard errors package: use Is(err, "W001") or
// errors.As to recover the *Error.
package errors
