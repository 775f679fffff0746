package vdom

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/webcell/pkg/dom"
)

func newRoot() (*dom.Document, *dom.Node) {
	doc := dom.NewDocument()
	root := doc.CreateElement("div")
	doc.Body().AppendChild(root)
	return doc, root
}

func countMutations(doc *dom.Document, fn func()) int {
	n := 0
	stop := doc.Observe(func(dom.Mutation) { n++ })
	defer stop()
	fn()
	return n
}

func TestPatchAnchorMarkup(t *testing.T) {
	_, root := newRoot()
	PatchElement(root, Fragment(H("a", Props{
		"title":       "Test",
		"style":       map[string]string{"color": "red"},
		"className":   "btn btn-primary",
		"data-toggle": "#test",
	}, "Test")))

	want := `<a title="Test" data-toggle="#test" class="btn btn-primary" style="color: red;">Test</a>`
	if got := root.InnerHTML(); got != want {
		t.Errorf("InnerHTML =\n%s\nwant\n%s", got, want)
	}
}

func list(keys ...string) *VNode {
	var items []*VNode
	for _, k := range keys {
		items = append(items, H("li", Props{"key": k, "className": "item-" + k}, k))
	}
	return Fragment(H("ul", nil, items))
}

func TestPatchIdenticalTreeNoMutations(t *testing.T) {
	doc, root := newRoot()
	build := func() *VNode {
		return Fragment(
			H("h1", Props{"title": "t", "data-x": "1", "style": "color: red"}, "Head"),
			H("input", Props{"value": "v", "checked": true, "onInput": func() {}}),
			list("a", "b", "c"),
		)
	}
	tree := PatchElement(root, build())

	if n := countMutations(doc, func() { tree = Patch(tree, build()) }); n != 0 {
		t.Errorf("identical re-render produced %d mutations", n)
	}
	if n := countMutations(doc, func() { Patch(tree, tree) }); n != 0 {
		t.Errorf("self patch produced %d mutations", n)
	}
}

func TestKeyedReorderPreservesIdentity(t *testing.T) {
	_, root := newRoot()
	tree := PatchElement(root, list("a", "b", "c", "d"))
	ul := root.FirstChild()
	before := map[string]*dom.Node{}
	for _, li := range ul.ChildNodes() {
		before[li.TextContent()] = li
	}

	Patch(tree, list("d", "b", "e", "a"))

	var got []string
	for _, li := range ul.ChildNodes() {
		got = append(got, li.TextContent())
	}
	if diff := cmp.Diff([]string{"d", "b", "e", "a"}, got); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	for _, k := range []string{"a", "b", "d"} {
		if ul.QuerySelector(".item-"+k) != before[k] {
			t.Errorf("node %q was recreated", k)
		}
	}
	if before["c"].Parent() != nil {
		t.Error("removed node still attached")
	}
}

func TestReplaceOnTagOrKindChange(t *testing.T) {
	_, root := newRoot()
	tree := PatchElement(root, Fragment(H("p", nil, "x"), "text"))
	p := root.FirstChild()

	Patch(tree, Fragment(H("div", nil, "x"), H("span", nil)))
	if root.FirstChild() == p {
		t.Error("element with a different tag was patched in place")
	}
	if got := root.InnerHTML(); got != "<div>x</div><span></span>" {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestModulesRemoveStaleData(t *testing.T) {
	_, root := newRoot()
	tree := PatchElement(root, Fragment(H("button", Props{
		"disabled":  true,
		"className": "a b",
		"style":     map[string]string{"color": "red", "margin": "0"},
		"data-id":   "1",
		"role":      "tab",
	})))
	btn := root.FirstChild()

	Patch(tree, Fragment(H("button", Props{
		"className": map[string]bool{"a": false, "c": true},
		"style":     map[string]string{"margin": "1px"},
	})))

	if got := btn.Attribute("class"); got != "c" {
		t.Errorf("class = %q, want %q", got, "c")
	}
	if got := btn.Attribute("style"); got != "margin: 1px;" {
		t.Errorf("style = %q", got)
	}
	if btn.HasAttribute("disabled") || btn.HasAttribute("role") || btn.HasAttribute("data-id") {
		t.Errorf("stale attributes left: %s", btn.OuterHTML())
	}
}

func TestEventProxyNoListenerChurn(t *testing.T) {
	_, root := newRoot()
	var calls []int
	render := func(n int) *VNode {
		return Fragment(H("button", Props{"onClick": func(*dom.Event) { calls = append(calls, n) }}))
	}
	tree := PatchElement(root, render(1))
	btn := root.FirstChild()
	tree = Patch(tree, render(2))

	if c := btn.ListenerCount("click"); c != 1 {
		t.Errorf("ListenerCount = %d, want 1", c)
	}
	btn.DispatchEvent(dom.NewEvent("click", dom.EventInit{}))
	if diff := cmp.Diff([]int{2}, calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}

	Patch(tree, Fragment(H("button", nil)))
	if c := btn.ListenerCount("click"); c != 0 {
		t.Errorf("listener not removed, count = %d", c)
	}
}

func TestReleaseRemovesListeners(t *testing.T) {
	_, root := newRoot()
	tree := PatchElement(root, Fragment(H("div", nil,
		H("button", Props{"onClick": func() {}}),
		H("input", Props{"onInput": func() {}, "onChange": func() {}}),
	)))
	btn := root.QuerySelector("button")
	in := root.QuerySelector("input")

	Release(tree)
	Release(tree)

	for _, c := range []struct {
		n   *dom.Node
		typ string
	}{{btn, "click"}, {in, "input"}, {in, "change"}} {
		if got := c.n.ListenerCount(c.typ); got != 0 {
			t.Errorf("%s %s listeners = %d, want 0", c.n.Tag(), c.typ, got)
		}
	}

	Patch(Container(root), Fragment(H("div", nil,
		H("button", Props{"onClick": func() {}}),
		H("input", nil),
	)))
	if got := btn.ListenerCount("click"); got != 1 {
		t.Errorf("click listeners after re-patch = %d, want 1", got)
	}
}

func TestInsertHookOrder(t *testing.T) {
	_, root := newRoot()
	var order []string
	hook := func(name string) func(*dom.Node) {
		return func(n *dom.Node) {
			if !n.IsConnected() {
				t.Errorf("%s hook ran before attach", name)
			}
			order = append(order, name)
		}
	}
	PatchElement(root, Fragment(
		H("div", Props{"hook": hook("outer")},
			H("span", Props{"ref": hook("inner")})),
		H("p", Props{"hook": hook("sibling")}),
	))
	if diff := cmp.Diff([]string{"inner", "outer", "sibling"}, order); diff != "" {
		t.Errorf("hook order (-want +got):\n%s", diff)
	}
}

func TestLiveValueIsRestored(t *testing.T) {
	_, root := newRoot()
	build := func() *VNode { return Fragment(H("input", Props{"value": "a"})) }
	tree := PatchElement(root, build())
	in := root.FirstChild()
	in.SetProperty("value", "typed")

	Patch(tree, build())
	if got := in.Property("value"); got != "a" {
		t.Errorf("value = %v, want a", got)
	}
}

// canonical serializes n's children with attributes sorted by name, since
// attribute order is not part of the observable structure.
func canonical(n *dom.Node) string {
	var out string
	for _, c := range n.ChildNodes() {
		switch c.Type {
		case dom.TextNode:
			out += "text(" + c.Data + ")"
		case dom.ElementNode:
			attrs := map[string]string{}
			for _, a := range c.Attributes() {
				attrs[a.Name] = a.Value
			}
			out += "<" + c.Tag()
			for _, k := range dom.SortedKeys(attrs) {
				out += " " + k + "=" + attrs[k]
			}
			out += ">" + canonical(c) + "</>"
		}
	}
	return out
}

// randomTree builds a deterministic random tree for seed.
func randomTree(r *rand.Rand, depth int) []any {
	tags := []string{"div", "span", "p", "ul", "li", "b"}
	n := r.Intn(4)
	var out []any
	for i := 0; i < n; i++ {
		switch r.Intn(4) {
		case 0:
			out = append(out, fmt.Sprintf("t%d", r.Intn(3)))
		default:
			props := Props{}
			if r.Intn(2) == 0 {
				props["key"] = fmt.Sprintf("k%d", r.Intn(5))
			}
			if r.Intn(2) == 0 {
				props["className"] = fmt.Sprintf("c%d", r.Intn(3))
			}
			if r.Intn(2) == 0 {
				props["title"] = fmt.Sprintf("x%d", r.Intn(3))
			}
			var kids []any
			if depth > 0 {
				kids = randomTree(r, depth-1)
			}
			out = append(out, H(tags[r.Intn(len(tags))], props, kids...))
		}
	}
	return out
}

func TestPatchConverges(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		buildA := func() *VNode { return Fragment(randomTree(rand.New(rand.NewSource(seed)), 3)...) }
		buildB := func() *VNode { return Fragment(randomTree(rand.New(rand.NewSource(seed+1000)), 3)...) }

		_, patched := newRoot()
		tree := PatchElement(patched, buildA())
		Patch(tree, buildB())

		_, fresh := newRoot()
		PatchElement(fresh, buildB())

		if got, want := canonical(patched), canonical(fresh); got != want {
			t.Fatalf("seed %d: patched\n%s\nfresh\n%s", seed, got, want)
		}
	}
}
