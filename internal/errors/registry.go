package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (W001-W009)
	// ============================================

	"W001": {
		Category: CategoryConfig,
		Message:  "Custom element already defined",
		Detail:   "A tag name can be defined once per registry.",
		DocURL:   "https://webcell.dev/docs/errors/W001",
	},
	"W002": {
		Category: CategoryConfig,
		Message:  "Invalid custom element name",
		Detail:   "Custom element names start with a lower-case letter and contain a hyphen.",
		DocURL:   "https://webcell.dev/docs/errors/W002",
	},
	"W003": {
		Category: CategoryConfig,
		Message:  "Attribute collides with a built-in property",
		Detail:   "An observed attribute maps to a property every element already has.",
		DocURL:   "https://webcell.dev/docs/errors/W003",
	},
	"W004": {
		Category: CategoryConfig,
		Message:  "Injected style requires a shadow root",
		Detail:   "Styles are rendered into the shadow root and cannot be used with a light DOM render target.",
		DocURL:   "https://webcell.dev/docs/errors/W004",
	},
	"W005": {
		Category: CategoryConfig,
		Message:  "Definition is frozen",
		Detail:   "Component metadata cannot change once the definition is registered.",
		DocURL:   "https://webcell.dev/docs/errors/W005",
	},
	"W006": {
		Category: CategoryConfig,
		Message:  "Missing render function",
		Detail:   "Every component definition needs a render function.",
		DocURL:   "https://webcell.dev/docs/errors/W006",
	},

	// ============================================
	// Render Errors (W010-W019)
	// ============================================

	"W010": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The component's render function panicked. The previously committed DOM is left in place.",
		DocURL:   "https://webcell.dev/docs/errors/W010",
	},
	"W011": {
		Category: CategoryRender,
		Message:  "Async component failed",
		Detail:   "The asynchronous render function returned an error.",
		DocURL:   "https://webcell.dev/docs/errors/W011",
	},
	"W012": {
		Category: CategoryRender,
		Message:  "Task panicked",
		Detail:   "A task scheduled on the event loop panicked.",
		DocURL:   "https://webcell.dev/docs/errors/W012",
	},

	// ============================================
	// Platform Errors (W020-W029)
	// ============================================

	"W020": {
		Category: CategoryPlatform,
		Message:  "Markup parse failed",
		Detail:   "The HTML could not be parsed into document nodes.",
		DocURL:   "https://webcell.dev/docs/errors/W020",
	},
	"W021": {
		Category: CategoryPlatform,
		Message:  "Invalid selector",
		Detail:   "Only tag, #id, .class, [attr] and [attr=value] compounds joined by descendant combinators are supported.",
		DocURL:   "https://webcell.dev/docs/errors/W021",
	},

	// ============================================
	// Tool Errors (W040-W059)
	// ============================================

	"W040": {
		Category: CategoryTool,
		Message:  "Configuration file invalid",
		Detail:   "webcell.yaml could not be parsed.",
		DocURL:   "https://webcell.dev/docs/errors/W040",
	},
	"W041": {
		Category: CategoryTool,
		Message:  "Publish failed",
		Detail:   "Uploading rendered markup to object storage failed.",
		DocURL:   "https://webcell.dev/docs/errors/W041",
	},
	"W042": {
		Category: CategoryTool,
		Message:  "Preview server failed",
		Detail:   "The preview server stopped with an error.",
		DocURL:   "https://webcell.dev/docs/errors/W042",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
