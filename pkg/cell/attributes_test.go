package cell

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/webcell/pkg/observable"
	"github.com/vango-dev/webcell/pkg/vdom"
)

func attrDefinition(t *testing.T, renders *int) *Definition {
	return mustBuild(t, Define("x-attrs").
		Attribute("items", "open", "maxCount").
		Observe("mode").
		Default("open", false).
		Render(func(c *Component) any {
			*renders++
			return vdom.H("p", nil, c.Props().String("maxCount"))
		}))
}

func TestAttributeToProperty(t *testing.T) {
	tests := []struct {
		name  string
		attr  string
		value string
		prop  string
		want  any
	}{
		{"json array", "items", "[1,2]", "items", []any{1.0, 2.0}},
		{"json object", "items", `{"a":"b"}`, "items", map[string]any{"a": "b"}},
		{"not json", "items", "not json", "items", "not json"},
		{"number", "max-count", "12", "maxCount", 12.0},
		{"empty string", "items", "", "items", ""},
		{"bool presence", "open", "", "open", true},
		{"bool false text", "open", "false", "open", false},
		{"observed only", "mode", "dark", "mode", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renders := 0
			h := newHarness(t, attrDefinition(t, &renders))
			el, c := h.mount("x-attrs")

			el.SetAttribute(tt.attr, tt.value)

			if diff := cmp.Diff(tt.want, c.Props()[tt.prop]); diff != "" {
				t.Errorf("props.%s (-want +got):\n%s", tt.prop, diff)
			}
		})
	}
}

func TestPropertyToAttribute(t *testing.T) {
	tests := []struct {
		name     string
		prop     string
		value    any
		attr     string
		wantAttr string
		present  bool
	}{
		{"string", "items", "abc", "items", "abc", true},
		{"number", "maxCount", 3, "max-count", "3", true},
		{"object", "items", map[string]any{"a": 1}, "items", `{"a":1}`, true},
		{"slice", "items", []string{"x", "y"}, "items", `["x","y"]`, true},
		{"true", "open", true, "open", "", true},
		{"false", "open", false, "open", "", false},
		{"nil", "items", nil, "items", "", false},
		{"signal", "items", observable.NewSignal("boxed"), "items", "boxed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renders := 0
			h := newHarness(t, attrDefinition(t, &renders))
			el, _ := h.mount("x-attrs")
			el.SetAttribute(tt.attr, "seed")

			el.SetProperty(tt.prop, tt.value)

			got, present := el.GetAttribute(tt.attr)
			if present != tt.present || got != tt.wantAttr {
				t.Errorf("attribute %s = %q (present %v), want %q (present %v)",
					tt.attr, got, present, tt.wantAttr, tt.present)
			}
		})
	}
}

func TestReflectionDoesNotFeedBack(t *testing.T) {
	renders := 0
	h := newHarness(t, attrDefinition(t, &renders))
	el, c := h.mount("x-attrs")

	c.SetProp("maxCount", 3)
	h.loop.Flush()

	if got, ok := c.Props()["maxCount"].(int); !ok || got != 3 {
		t.Errorf("props.maxCount = %#v, want int 3", c.Props()["maxCount"])
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}

	n := h.mutations(func() {
		c.SetProp("maxCount", 3)
		h.loop.Flush()
	})
	if n != 0 {
		t.Errorf("mutations for an unchanged prop = %d, want 0", n)
	}
	if renders != 2 {
		t.Errorf("renders after unchanged write = %d, want 2", renders)
	}

	// An attribute write that parses to the current value is ignored.
	el.SetAttribute("max-count", "3.0")
	h.loop.Flush()
	if renders != 2 {
		t.Errorf("renders after equal attribute = %d, want 2", renders)
	}
}

func TestAttributeUpdatesBeforeConnect(t *testing.T) {
	renders := 0
	h := newHarness(t, attrDefinition(t, &renders))
	el := h.doc.CreateElement("x-attrs")
	el.SetAttribute("max-count", "9")
	h.doc.Body().AppendChild(el)
	h.loop.Flush()

	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
	if got := el.ShadowRoot().InnerHTML(); got != "<p>9</p>" {
		t.Errorf("InnerHTML = %q, want <p>9</p>", got)
	}
}
