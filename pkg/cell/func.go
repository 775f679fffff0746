package cell

import "github.com/vango-dev/webcell/pkg/vdom"

// Func adapts fn into a function component for vdom.H. fn receives the
// call's props with the children under vdom.SlotProp and may return
// anything vdom.Flatten accepts.
func Func(fn func(props Data) any) vdom.FuncComponent {
	return func(props vdom.Props) *vdom.VNode {
		kids := vdom.Flatten(fn(Data(props)))
		if len(kids) == 1 {
			return kids[0]
		}
		return vdom.Fragment(kids)
	}
}
