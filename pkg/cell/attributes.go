package cell

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/loop"
	"github.com/vango-dev/webcell/pkg/observable"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// HasProperty implements dom.PropertyHost.
func (c *Component) HasProperty(name string) bool {
	return c.def.HasProperty(name)
}

// Property implements dom.PropertyHost.
func (c *Component) Property(name string) any {
	return c.props[name]
}

// SetProperty implements dom.PropertyHost.
func (c *Component) SetProperty(name string, value any) {
	c.SetProp(name, value)
}

// SetProp stores value under name, unwrapping observable containers first,
// and requests an update when the value changed. Attribute props are
// mirrored onto their attribute right away.
func (c *Component) SetProp(name string, value any) *loop.Future {
	return c.setProp(name, observable.Raw(value), false)
}

func (c *Component) setProp(name string, value any, fromAttr bool) *loop.Future {
	old, had := c.props[name]
	c.props[name] = value

	if w := c.def.watched[name]; w.reflect && !fromAttr {
		c.reflect(w.attr, value)
	}
	if had && sameValue(old, value) {
		return c.rt.loop.Resolved(nil)
	}
	return c.requestUpdate()
}

// reflect writes the serialized value to attr, skipping writes that would
// not change it.
func (c *Component) reflect(attr string, value any) {
	text, present := serializeAttr(value)
	cur, has := c.host.GetAttribute(attr)
	if has == present && cur == text {
		return
	}

	c.reflecting = attr
	defer func() { c.reflecting = "" }()
	if present {
		c.host.SetAttribute(attr, text)
	} else {
		c.host.RemoveAttribute(attr)
	}
}

// AttributeChangedCallback implements dom.CustomElement. The new value is
// parsed as JSON when possible and assigned to the camelCase prop.
func (c *Component) AttributeChangedCallback(name, old, value string, exists bool) {
	if c.reflecting == name {
		return
	}
	prop := dom.CamelCase(name)
	v := c.parseAttr(prop, value, exists)
	if cur, ok := c.props[prop]; ok && sameValue(cur, v) {
		return
	}
	c.setProp(prop, v, true)
}

// parseAttr converts an attribute value to a prop value. Props whose
// default is a bool follow attribute presence.
func (c *Component) parseAttr(prop, value string, exists bool) any {
	if _, isBool := c.def.defaults[prop].(bool); isBool {
		return exists && value != "false"
	}
	if !exists {
		return nil
	}
	return parseAttrValue(value)
}

// parseAttrValue decodes JSON text, falling back to the raw string.
func parseAttrValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

// serializeAttr returns the attribute form of a prop value. nil and false
// remove the attribute, true sets it empty, strings and numbers are
// written as text and everything else as JSON.
func serializeAttr(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", t
	case string:
		return t, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return vdom.Stringify(t), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return vdom.Stringify(t), true
		}
		return string(b), true
	}
}
