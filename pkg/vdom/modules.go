package vdom

import (
	"reflect"

	"github.com/vango-dev/webcell/pkg/dom"
)

// emptyVNode is the baseline new elements are diffed against.
var emptyVNode = &VNode{}

// updateModules applies the data buckets of v to v.Elm, writing only what
// differs from old. Buckets are applied in a fixed order: attrs, props,
// dataset, class, style, events.
func updateModules(old, v *VNode) {
	elm := v.Elm
	updateAttrs(elm, old.Data.Attrs, v.Data.Attrs)
	updateProps(elm, old.Data.Props, v.Data.Props)
	updateDataset(elm, old.Data.Dataset, v.Data.Dataset)
	updateClass(elm, old.Data.Class, v.Data.Class)
	updateStyle(elm, old.Data.Style, v.Data.Style)
	updateEvents(old, v)
}

func updateAttrs(elm *dom.Node, old, cur map[string]any) {
	for _, k := range dom.SortedKeys(old) {
		if _, ok := cur[k]; !ok {
			elm.RemoveAttribute(k)
		}
	}
	for _, k := range dom.SortedKeys(cur) {
		val := cur[k]
		if prev, ok := old[k]; ok && valuesEqual(prev, val) {
			continue
		}
		switch b := val.(type) {
		case nil:
			elm.RemoveAttribute(k)
		case bool:
			elm.ToggleAttribute(k, b)
		default:
			elm.SetAttribute(k, Stringify(val))
		}
	}
}

// liveProps can be changed by the user, so they are compared against the
// element rather than the previous tree.
var liveProps = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
}

func updateProps(elm *dom.Node, old, cur map[string]any) {
	for _, k := range dom.SortedKeys(old) {
		if _, ok := cur[k]; ok {
			continue
		}
		if spec, known := dom.LookupProperty(elm.Tag(), k); (known && spec.Reflect) || elm.HasProperty(k) {
			elm.SetProperty(k, nil)
		} else {
			elm.DeleteProperty(k)
		}
	}
	for _, k := range dom.SortedKeys(cur) {
		val := cur[k]
		prev, ok := old[k]
		if ok && valuesEqual(prev, val) && !(liveProps[k] && !valuesEqual(elm.Property(k), val)) {
			continue
		}
		elm.SetProperty(k, val)
	}
}

func updateDataset(elm *dom.Node, old, cur map[string]string) {
	for _, k := range dom.SortedKeys(old) {
		if _, ok := cur[k]; !ok {
			elm.RemoveData(k)
		}
	}
	for _, k := range dom.SortedKeys(cur) {
		if prev, ok := old[k]; ok && prev == cur[k] {
			continue
		}
		elm.SetData(k, cur[k])
	}
}

func updateClass(elm *dom.Node, old, cur map[string]bool) {
	for _, k := range dom.SortedKeys(old) {
		if old[k] && !cur[k] {
			elm.RemoveClass(k)
		}
	}
	for _, k := range dom.SortedKeys(cur) {
		if cur[k] && !old[k] {
			elm.AddClass(k)
		}
	}
}

func updateStyle(elm *dom.Node, old, cur map[string]string) {
	for _, k := range dom.SortedKeys(old) {
		if _, ok := cur[k]; !ok {
			elm.RemoveStyle(k)
		}
	}
	for _, k := range dom.SortedKeys(cur) {
		if prev, ok := old[k]; ok && prev == cur[k] {
			continue
		}
		elm.SetStyle(k, cur[k])
	}
}

// eventProxy owns one DOM listener per event type and forwards to the
// handler of the most recent render, so changing handler closures between
// renders never touches the element's listeners.
type eventProxy struct {
	handlers map[string]dom.EventListener
	removers map[string]func()
}

func updateEvents(old, v *VNode) {
	p := old.events
	if p == nil && len(v.Data.On) == 0 {
		return
	}
	if p == nil {
		p = &eventProxy{
			handlers: make(map[string]dom.EventListener),
			removers: make(map[string]func()),
		}
	}
	for typ, remove := range p.removers {
		if _, ok := v.Data.On[typ]; !ok {
			remove()
			delete(p.removers, typ)
			delete(p.handlers, typ)
		}
	}
	for typ, h := range v.Data.On {
		p.handlers[typ] = h
		if _, ok := p.removers[typ]; !ok {
			p.removers[typ] = v.Elm.AddEventListener(typ, func(e *dom.Event) {
				if h := p.handlers[typ]; h != nil {
					h(e)
				}
			})
		}
	}
	if len(p.removers) > 0 {
		v.events = p
	}
}

// valuesEqual compares prop values without panicking on uncomparable types.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Release removes the event listeners a patch installed on the nodes of
// tree. The DOM itself is left as it is; a later patch against hydrated
// content will install fresh listeners.
func Release(tree *VNode) {
	if tree == nil {
		return
	}
	if p := tree.events; p != nil {
		for typ, remove := range p.removers {
			remove()
			delete(p.removers, typ)
			delete(p.handlers, typ)
		}
		tree.events = nil
	}
	for _, c := range tree.Children {
		Release(c)
	}
}
