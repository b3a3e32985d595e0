package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestFindByID(t *testing.T) {
	doc := parse(t, `<div id="a"><span id="b">x</span><span id="b">y</span></div>`)

	node := FindByID(doc, "b")
	if node == nil {
		t.Fatalf("expected node")
	}
	if got := TextContent(node); got != "x" {
		t.Fatalf("expected first match in document order, got %q", got)
	}
	if FindByID(doc, "missing") != nil {
		t.Fatalf("expected nil for missing id")
	}
	if FindByID(doc, "") != nil {
		t.Fatalf("expected nil for empty id")
	}
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	doc := parse(t, `<div id="root" class="c"><p>one<b>two</b></p></div>`)
	root := FindByID(doc, "root")

	clone := Clone(root)
	if clone.Parent != nil || clone.NextSibling != nil {
		t.Fatalf("expected detached clone")
	}

	RemoveAttr(clone, "class")
	SetTextContent(clone.FirstChild, "changed")

	if v, _ := Attr(root, "class"); v != "c" {
		t.Fatalf("original attributes changed: %q", v)
	}
	if got := TextContent(root); got != "onetwo" {
		t.Fatalf("original text changed: %q", got)
	}
	if got := TextContent(clone); got != "changed" {
		t.Fatalf("unexpected clone text %q", got)
	}
}

func TestStyleProperty(t *testing.T) {
	node := Element("span", A("style", "background-color: transparent; padding: 2px 4px"))

	if _, ok := StyleProperty(node, "color"); ok {
		t.Fatalf("background-color must not count as color")
	}

	SetStyleProperty(node, "color", "#000000")
	if v, ok := StyleProperty(node, "color"); !ok || v != "#000000" {
		t.Fatalf("expected color, got %q %v", v, ok)
	}
	if v, ok := StyleProperty(node, "padding"); !ok || v != "2px 4px" {
		t.Fatalf("expected padding kept, got %q", v)
	}

	SetStyleProperty(node, "COLOR", "red")
	raw, _ := Attr(node, "style")
	if strings.Count(raw, "color: ") != 2 {
		t.Fatalf("expected color replaced in place, got %q", raw)
	}
}

func TestInnerAndOuterHTML(t *testing.T) {
	root := Append(Element("div", A("id", "x")), Text("a<b"), Append(Element("span"), Text("c")))

	inner, err := InnerHTML(root)
	if err != nil {
		t.Fatalf("inner: %v", err)
	}
	if inner != "a&lt;b<span>c</span>" {
		t.Fatalf("unexpected inner html %q", inner)
	}

	outer, err := OuterHTML(root)
	if err != nil {
		t.Fatalf("outer: %v", err)
	}
	if outer != `<div id="x">a&lt;b<span>c</span></div>` {
		t.Fatalf("unexpected outer html %q", outer)
	}
}
