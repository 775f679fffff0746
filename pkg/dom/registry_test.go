package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/webcell/internal/errors"
)

type recorder struct {
	el  *Node
	log *[]string
}

func (r *recorder) ConnectedCallback()    { *r.log = append(*r.log, "connected") }
func (r *recorder) DisconnectedCallback() { *r.log = append(*r.log, "disconnected") }
func (r *recorder) AdoptedCallback()      { *r.log = append(*r.log, "adopted") }
func (r *recorder) AttributeChangedCallback(name, old, value string, exists bool) {
	*r.log = append(*r.log, "attr:"+name+":"+old+"->"+value)
}

func defineRecorder(t *testing.T, doc *Document, name string, log *[]string) {
	t.Helper()
	err := doc.Registry().Define(name, func(el *Node) CustomElement {
		*log = append(*log, "constructed")
		return &recorder{el: el, log: log}
	}, DefineOptions{ObservedAttributes: []string{"name"}})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
}

func TestLifecycleCallbacks(t *testing.T) {
	doc := NewDocument()
	var log []string
	defineRecorder(t, doc, "x-rec", &log)

	el := doc.CreateElement("x-rec")
	el.SetAttribute("name", "a")
	el.SetAttribute("other", "ignored")
	doc.Body().AppendChild(el)
	el.SetAttribute("name", "b")
	el.Remove()
	doc.Body().AppendChild(el)

	want := []string{
		"constructed",
		"attr:name:->a",
		"connected",
		"attr:name:a->b",
		"disconnected",
		"connected",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("lifecycle (-want +got):\n%s", diff)
	}
}

func TestMoveWithinDocumentReconnects(t *testing.T) {
	doc := NewDocument()
	var log []string
	defineRecorder(t, doc, "x-rec", &log)

	a := doc.CreateElement("div")
	b := doc.CreateElement("div")
	doc.Body().AppendChild(a)
	doc.Body().AppendChild(b)
	el := doc.CreateElement("x-rec")
	a.AppendChild(el)
	log = nil

	b.AppendChild(el)
	if diff := cmp.Diff([]string{"disconnected", "connected"}, log); diff != "" {
		t.Errorf("move (-want +got):\n%s", diff)
	}
}

func TestDefineUpgradesExistingElements(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("x-late")
	el.SetAttribute("name", "early")
	doc.Body().AppendChild(el)

	var log []string
	defineRecorder(t, doc, "x-late", &log)

	want := []string{"constructed", "attr:name:->early", "connected"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("upgrade (-want +got):\n%s", diff)
	}
}

func TestAdoptedCallback(t *testing.T) {
	doc := NewDocument()
	other := NewDocument()
	var log []string
	defineRecorder(t, doc, "x-rec", &log)

	el := doc.CreateElement("x-rec")
	log = nil
	other.Body().AppendChild(el)

	if len(log) == 0 || log[0] != "adopted" {
		t.Errorf("log = %v, want adopted first", log)
	}
	if el.OwnerDocument() != other {
		t.Error("owner document not updated")
	}
}

func TestDefineErrors(t *testing.T) {
	ctor := func(el *Node) CustomElement { return nil }

	tests := []struct {
		name string
		tag  string
		code string
	}{
		{"no hyphen", "button", "W002"},
		{"upper case", "My-Cell", "W002"},
		{"reserved", "font-face", "W002"},
		{"duplicate", "my-cell", "W001"},
	}

	doc := NewDocument()
	if err := doc.Registry().Define("my-cell", ctor, DefineOptions{}); err != nil {
		t.Fatalf("first Define: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := doc.Registry().Define(tt.tag, ctor, DefineOptions{})
			if !errors.Is(err, tt.code) {
				t.Errorf("Define(%q) = %v, want code %s", tt.tag, err, tt.code)
			}
		})
	}
}

func TestCustomizedBuiltIn(t *testing.T) {
	doc := NewDocument()
	var log []string
	err := doc.Registry().Define("fancy-button", func(el *Node) CustomElement {
		return &recorder{el: el, log: &log}
	}, DefineOptions{Extends: "button"})
	if err != nil {
		t.Fatal(err)
	}

	plain := doc.CreateElement("button")
	fancy := doc.CreateElementIs("button", "fancy-button")
	if plain.Custom() != nil {
		t.Error("plain button upgraded")
	}
	if fancy.Custom() == nil {
		t.Error("customized button not upgraded")
	}
	if doc.CreateElement("fancy-button").Custom() != nil {
		t.Error("autonomous use of an extending definition must not upgrade")
	}
}

func TestDefinitionIsPerDocument(t *testing.T) {
	ctor := func(el *Node) CustomElement { return &recorder{el: el, log: new([]string)} }
	first, second := NewDocument(), NewDocument()
	if err := first.Registry().Define("x-shared", ctor, DefineOptions{Definition: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := second.Registry().Define("x-shared", ctor, DefineOptions{Definition: "second"}); err != nil {
		t.Fatal(err)
	}

	for doc, want := range map[*Document]string{first: "first", second: "second"} {
		got, ok := doc.Registry().Definition("x-shared")
		if !ok || got != want {
			t.Errorf("Definition(x-shared) = %v, %v; want %s", got, ok, want)
		}
	}
	if _, ok := first.Registry().Definition("x-missing"); ok {
		t.Error("undefined tag has a definition")
	}
}
