package document

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-policydoc/dom"
)

// SlotAttr marks the element holding a slot value.
const SlotAttr = "data-slot"

// SlotClass is the class the editor page uses to highlight slots.
const SlotClass = "editable-field"

// Renderer turns a template and its field values into an HTML tree.
type Renderer struct {
	RootID    string
	RootStyle string
	Title     string
	// Editable adds contenteditable to slot elements.
	Editable bool
}

// NewRenderer returns a renderer for the editable pension proposal.
func NewRenderer() Renderer {
	return Renderer{
		RootID:    ContentRootID,
		RootStyle: RootStyle,
		Title:     "পেনশন পলিসি প্রস্তাব",
		Editable:  true,
	}
}

// Render builds the content root for tpl with the current store values.
func (r Renderer) Render(tpl *Template, store *Store) *html.Node {
	rootID := r.RootID
	if rootID == "" {
		rootID = ContentRootID
	}
	root := dom.Element("div", dom.A("id", rootID))
	if r.RootStyle != "" {
		dom.SetAttr(root, "style", r.RootStyle)
	}

	values := store.Values()
	for _, seg := range tpl.Segments() {
		dom.Append(root, r.renderSegment(seg, values))
	}
	return root
}

// HostDocument wraps the rendered content root in a complete HTML document:
// html > head + body > div#editable-document > content root.
func (r Renderer) HostDocument(tpl *Template, store *Store) *html.Node {
	head := dom.Element("head")
	dom.Append(head, dom.Element("meta", dom.A("charset", "utf-8")))
	if r.Title != "" {
		dom.Append(head, dom.Append(dom.Element("title"), dom.Text(r.Title)))
	}

	wrapper := dom.Append(dom.Element("div", dom.A("id", "editable-document")), r.Render(tpl, store))
	body := dom.Append(dom.Element("body"), wrapper)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(dom.Append(dom.Element("html", dom.A("lang", "bn")), head, body))
	return doc
}

func (r Renderer) renderSegment(seg Segment, values map[string]string) *html.Node {
	switch seg.Kind {
	case SegmentText:
		return dom.Text(seg.Text)
	case SegmentSlot:
		node := dom.Element("span", dom.A(SlotAttr, seg.SlotID))
		if r.Editable {
			dom.SetAttr(node, "contenteditable", "true")
			dom.SetAttr(node, "spellcheck", "false")
		}
		dom.SetAttr(node, "class", SlotClass)
		if seg.Style != "" {
			dom.SetAttr(node, "style", seg.Style)
		}
		if value := values[seg.SlotID]; value != "" {
			dom.Append(node, dom.Text(value))
		}
		return node
	case SegmentElement:
		node := dom.Element(seg.Tag)
		if seg.Style != "" {
			dom.SetAttr(node, "style", seg.Style)
		}
		for _, child := range seg.Children {
			dom.Append(node, r.renderSegment(child, values))
		}
		return node
	default:
		return nil
	}
}
