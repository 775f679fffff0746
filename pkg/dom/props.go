package dom

// PropertySpec describes a built-in DOM property.
type PropertySpec struct {
	// Attr is the attribute the property reflects, or "" for none.
	Attr string

	// Reflect is true when writes go through to Attr.
	Reflect bool

	// Boolean properties reflect as attribute presence.
	Boolean bool
}

func reflected(attr string) PropertySpec     { return PropertySpec{Attr: attr, Reflect: true} }
func reflectedBool(attr string) PropertySpec { return PropertySpec{Attr: attr, Reflect: true, Boolean: true} }

// defaultsFrom marks properties like input.value: the attribute provides the
// default, writes stay on the element.
func defaultsFrom(attr string) PropertySpec { return PropertySpec{Attr: attr} }

func defaultsFromBool(attr string) PropertySpec { return PropertySpec{Attr: attr, Boolean: true} }

// globalProperties exist on every HTMLElement.
var globalProperties = map[string]PropertySpec{
	"id":              reflected("id"),
	"title":           reflected("title"),
	"className":       reflected("class"),
	"lang":            reflected("lang"),
	"dir":             reflected("dir"),
	"slot":            reflected("slot"),
	"accessKey":       reflected("accesskey"),
	"tabIndex":        reflected("tabindex"),
	"draggable":       reflected("draggable"),
	"contentEditable": reflected("contenteditable"),
	"hidden":          reflectedBool("hidden"),
	"inert":           reflectedBool("inert"),
	"textContent":     {},
}

// tagProperties are the element-specific settable properties.
var tagProperties = map[string]map[string]PropertySpec{
	"a": {
		"href":     reflected("href"),
		"target":   reflected("target"),
		"rel":      reflected("rel"),
		"download": reflected("download"),
	},
	"area": {
		"href": reflected("href"),
		"alt":  reflected("alt"),
	},
	"button": {
		"disabled": reflectedBool("disabled"),
		"name":     reflected("name"),
		"type":     reflected("type"),
		"value":    reflected("value"),
	},
	"form": {
		"action":     reflected("action"),
		"method":     reflected("method"),
		"noValidate": reflectedBool("novalidate"),
	},
	"img": {
		"src":    reflected("src"),
		"alt":    reflected("alt"),
		"width":  reflected("width"),
		"height": reflected("height"),
	},
	"input": {
		"value":       defaultsFrom("value"),
		"checked":     defaultsFromBool("checked"),
		"disabled":    reflectedBool("disabled"),
		"readOnly":    reflectedBool("readonly"),
		"required":    reflectedBool("required"),
		"multiple":    reflectedBool("multiple"),
		"name":        reflected("name"),
		"type":        reflected("type"),
		"placeholder": reflected("placeholder"),
		"min":         reflected("min"),
		"max":         reflected("max"),
		"step":        reflected("step"),
		"pattern":     reflected("pattern"),
	},
	"label": {
		"htmlFor": reflected("for"),
	},
	"link": {
		"href": reflected("href"),
		"rel":  reflected("rel"),
	},
	"option": {
		"value":    reflected("value"),
		"label":    reflected("label"),
		"disabled": reflectedBool("disabled"),
		"selected": defaultsFromBool("selected"),
	},
	"select": {
		"value":    defaultsFrom("value"),
		"name":     reflected("name"),
		"disabled": reflectedBool("disabled"),
		"multiple": reflectedBool("multiple"),
		"required": reflectedBool("required"),
	},
	"textarea": {
		"value":       defaultsFrom("value"),
		"name":        reflected("name"),
		"disabled":    reflectedBool("disabled"),
		"readOnly":    reflectedBool("readonly"),
		"placeholder": reflected("placeholder"),
		"rows":        reflected("rows"),
		"cols":        reflected("cols"),
	},
	"td": {
		"colSpan": reflected("colspan"),
		"rowSpan": reflected("rowspan"),
	},
	"th": {
		"colSpan": reflected("colspan"),
		"rowSpan": reflected("rowspan"),
	},
	"iframe": {
		"src":  reflected("src"),
		"name": reflected("name"),
	},
	"video": {
		"src":      reflected("src"),
		"controls": reflectedBool("controls"),
		"autoplay": reflectedBool("autoplay"),
		"muted":    defaultsFromBool("muted"),
		"loop":     reflectedBool("loop"),
	},
	"details": {
		"open": reflectedBool("open"),
	},
	"dialog": {
		"open": reflectedBool("open"),
	},
}

// LookupProperty returns the built-in property spec of tag.name, the
// equivalent of checking the element prototype for a settable property.
func LookupProperty(tag, name string) (PropertySpec, bool) {
	if spec, ok := tagProperties[tag][name]; ok {
		return spec, true
	}
	spec, ok := globalProperties[name]
	return spec, ok
}

// PropertyForAttribute returns the built-in property of tag that reflects
// attr, the reverse of LookupProperty.
func PropertyForAttribute(tag, attr string) (string, bool) {
	for name, spec := range tagProperties[tag] {
		if spec.Reflect && spec.Attr == attr {
			return name, true
		}
	}
	for name, spec := range globalProperties {
		if spec.Reflect && spec.Attr == attr {
			if _, shadowed := tagProperties[tag][name]; !shadowed {
				return name, true
			}
		}
	}
	return "", false
}
