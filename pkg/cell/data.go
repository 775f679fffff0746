package cell

import "github.com/vango-dev/webcell/pkg/vdom"

// Data holds component props or state, keyed by camelCase name.
type Data map[string]any

// Int returns the value of key as an int, converting float64 values that
// come from JSON attributes.
func (d Data) Int(key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// String returns the value of key formatted as text, or "" when absent.
func (d Data) String(key string) string {
	if v, ok := d[key]; ok && v != nil {
		return vdom.Stringify(v)
	}
	return ""
}

// Bool returns the value of key when it is a bool.
func (d Data) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Children returns the nodes passed under vdom.SlotProp.
func (d Data) Children() []*vdom.VNode {
	kids, _ := d[vdom.SlotProp].([]*vdom.VNode)
	return kids
}

func (d Data) clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
