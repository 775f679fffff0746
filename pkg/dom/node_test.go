package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func childTags(n *Node) []string {
	var out []string
	for _, c := range n.ChildNodes() {
		out = append(out, c.NodeName())
	}
	return out
}

func TestInsertBeforeOrdering(t *testing.T) {
	doc := NewDocument()
	ul := doc.CreateElement("ul")
	a := doc.CreateElement("a")
	b := doc.CreateElement("b")
	i := doc.CreateElement("i")

	ul.AppendChild(a)
	ul.AppendChild(b)
	ul.InsertBefore(i, b)

	if diff := cmp.Diff([]string{"a", "i", "b"}, childTags(ul)); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	// Moving an attached node detaches it first.
	ul.InsertBefore(b, a)
	if diff := cmp.Diff([]string{"b", "a", "i"}, childTags(ul)); diff != "" {
		t.Errorf("after move (-want +got):\n%s", diff)
	}
	if b.NextSibling() != a || a.PreviousSibling() != b {
		t.Error("sibling links wrong after move")
	}
}

func TestFragmentInsertMovesChildren(t *testing.T) {
	doc := NewDocument()
	frag := doc.CreateDocumentFragment()
	frag.AppendChild(doc.CreateTextNode("x"))
	frag.AppendChild(doc.CreateElement("br"))

	div := doc.CreateElement("div")
	div.AppendChild(frag)

	if frag.ChildCount() != 0 {
		t.Errorf("fragment still has %d children", frag.ChildCount())
	}
	if got := div.InnerHTML(); got != "x<br>" {
		t.Errorf("InnerHTML = %q, want %q", got, "x<br>")
	}
}

func TestInsertIntoOwnSubtreePanics(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	outer.AppendChild(inner)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	inner.AppendChild(outer)
}

func TestTextContent(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateTextNode("Hello, "))
	em := doc.CreateElement("em")
	em.AppendChild(doc.CreateTextNode("world"))
	p.AppendChild(em)
	p.AppendChild(doc.CreateComment("ignored"))

	if got := p.TextContent(); got != "Hello, world" {
		t.Errorf("TextContent = %q", got)
	}

	p.SetTextContent("plain")
	if p.ChildCount() != 1 || p.FirstChild().Type != TextNode {
		t.Fatalf("SetTextContent left %d children", p.ChildCount())
	}
	if got := p.InnerHTML(); got != "plain" {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestIsConnectedAcrossShadow(t *testing.T) {
	doc := NewDocument()
	host := doc.CreateElement("div")
	root := host.AttachShadow()
	inner := doc.CreateElement("span")
	root.AppendChild(inner)

	if inner.IsConnected() {
		t.Error("detached host: inner should not be connected")
	}
	doc.Body().AppendChild(host)
	if !inner.IsConnected() {
		t.Error("inner should be connected through its host")
	}
	if host.AttachShadow() != root {
		t.Error("AttachShadow should return the existing root")
	}
}

func TestObserveRecordsMutations(t *testing.T) {
	doc := NewDocument()
	var kinds []MutationKind
	stop := doc.Observe(func(m Mutation) { kinds = append(kinds, m.Kind) })

	div := doc.CreateElement("div")
	div.SetAttribute("id", "x")
	div.AppendChild(doc.CreateTextNode("a"))
	div.FirstChild().SetTextContent("a") // unchanged, no record
	div.FirstChild().SetTextContent("b")
	div.SetProperty("value", "v")

	stop()
	div.SetAttribute("id", "y")

	want := []MutationKind{MutationAttributes, MutationChildList, MutationCharacterData, MutationProperty}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("mutations (-want +got):\n%s", diff)
	}
}
