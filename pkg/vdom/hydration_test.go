package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/webcell/pkg/dom"
)

func TestToVNodeBuckets(t *testing.T) {
	_, root := newRoot()
	if err := root.SetInnerHTML(`<a href="/x" aria-label="go" class="btn big" style="color: red;" data-toggle-id="t">Go</a>`); err != nil {
		t.Fatal(err)
	}

	v := ToVNode(root.FirstChild())
	want := Data{
		Attrs:   map[string]any{"aria-label": "go"},
		Props:   map[string]any{"href": "/x"},
		Class:   map[string]bool{"btn": true, "big": true},
		Style:   map[string]string{"color": "red"},
		Dataset: map[string]string{"toggleId": "t"},
	}
	if diff := cmp.Diff(want, v.Data, cmpopts.IgnoreFields(Data{}, "Hook")); diff != "" {
		t.Errorf("Data (-want +got):\n%s", diff)
	}
	if v.Elm != root.FirstChild() || v.Children[0].Elm == nil {
		t.Error("hydrated nodes not bound")
	}
}

func TestPatchElementOverStaticMarkup(t *testing.T) {
	doc, root := newRoot()
	if err := root.SetInnerHTML(`<ul><li>a</li><li class="old">b</li></ul>`); err != nil {
		t.Fatal(err)
	}
	ul := root.FirstChild()
	first := ul.FirstChild()

	tree := PatchElement(root, Fragment(H("ul", nil, H("li", nil, "a"), H("li", nil, "c"), H("li", nil, "d"))))

	if root.FirstChild() != ul || ul.FirstChild() != first {
		t.Error("hydrated nodes were not reused")
	}
	if got := root.InnerHTML(); got != "<ul><li>a</li><li>c</li><li>d</li></ul>" {
		t.Errorf("InnerHTML = %q", got)
	}

	// The tree returned by PatchElement is a normal baseline.
	n := countMutations(doc, func() {
		Patch(tree, Fragment(H("ul", nil, H("li", nil, "a"), H("li", nil, "c"), H("li", nil, "d"))))
	})
	if n != 0 {
		t.Errorf("re-render after hydration produced %d mutations", n)
	}
}

func TestPatchElementOnRootItself(t *testing.T) {
	_, root := newRoot()
	root.SetAttribute("id", "stale")

	PatchElement(root, H("div", Props{"title": "fresh"}, "x"))
	if root.HasAttribute("id") {
		t.Error("stale attribute kept")
	}
	if got := root.OuterHTML(); got != `<div title="fresh">x</div>` {
		t.Errorf("OuterHTML = %q", got)
	}
}

func TestEmptyContainerBaseline(t *testing.T) {
	doc := dom.NewDocument()
	host := doc.CreateElement("x-host")
	shadow := host.AttachShadow()

	tree := Container(shadow)
	if tree.Kind != KindFragment || len(tree.Children) != 0 {
		t.Fatalf("baseline = %+v", tree)
	}
	Patch(tree, Fragment(H("h2", nil)))
	if got := shadow.InnerHTML(); got != "<h2></h2>" {
		t.Errorf("shadow InnerHTML = %q", got)
	}
}

func TestHydratedPropertiesPatchCleanly(t *testing.T) {
	doc, root := newRoot()
	if err := root.SetInnerHTML(`<p id="a" title="t" hidden>x</p>`); err != nil {
		t.Fatal(err)
	}
	tree := Container(root)

	n := countMutations(doc, func() {
		Patch(tree, Fragment(H("p", Props{"id": "a", "title": "t", "hidden": true}, "x")))
	})
	if n != 0 {
		t.Errorf("patching identical props over markup produced %d mutations", n)
	}
}
